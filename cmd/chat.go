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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spotify-data-agent/internal/agent"
)

// exitKeywords end the chat loop, case-insensitively.
var exitKeywords = []string{"exit", "quit", "stop"}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop over your listening history",
	Long: `Loads the export once, then reads one question per line and prints the
answer. Type 'exit', 'quit', or 'stop' to leave.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runChat(os.Stdin, os.Stdout, viper.GetString("data"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(in io.Reader, out io.Writer, dataDir string) error {
	logger := newLogger()
	defer logger.Sync()

	ds, err := loadDataset(dataDir, logger)
	if err != nil {
		return err
	}

	myAgent := agent.New(ds)

	first, last := myAgent.Coverage()
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(out, "SPOTIFY DATA AGENT IS LIVE!")
	fmt.Fprintf(out, "Data Coverage: **%s** to **%s**\n",
		first.Format("January 2006"), last.Format("January 2006"))
	fmt.Fprintln(out, "Try asking:")
	fmt.Fprintln(out, "  What is time listened in mins this (month, year)?")
	fmt.Fprintln(out, "  Who is my top artist in (year)?")
	fmt.Fprintln(out, "  Top 5 songs in (month) (year)")
	fmt.Fprintln(out, "  When do I listen on (day), (month) (year)?")
	fmt.Fprintln(out, "  Top artist on 15th August 2024")
	fmt.Fprintln(out, "(Type 'exit' to stop)")
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 60))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "YOU: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExitKeyword(input) {
			fmt.Fprintln(out, "Bye!")
			break
		}

		fmt.Fprintf(out, "AGENT: %s\n\n", myAgent.Answer(input))
	}
	return scanner.Err()
}

func isExitKeyword(input string) bool {
	lowered := strings.ToLower(input)
	for _, kw := range exitKeywords {
		if lowered == kw {
			return true
		}
	}
	return false
}
