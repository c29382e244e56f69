/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spotify-data-agent/internal/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answers a single question about your listening history",
	Long:  `One-shot version of chat, for scripting. All arguments are joined into the question.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAsk(os.Stdout, viper.GetString("data"), strings.Join(args, " "))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(out io.Writer, dataDir, question string) error {
	logger := newLogger()
	defer logger.Sync()

	ds, err := loadDataset(dataDir, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, agent.New(ds).Answer(question))
	return nil
}
