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

	"spotify-data-agent/internal/model"
)

var predictSeed int64

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Trains a skip-prediction model and reports AUC",
	Long: `Trains a classifier on the derived features to predict skips, using an
80/20 train/test split. Extended-history context features are used
automatically when the export carries them.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := trainSkipModel(os.Stdout, viper.GetString("data"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().Int64Var(&predictSeed, "seed", 42, "Random seed for the train/test split")
}

func trainSkipModel(out io.Writer, dataDir string) error {
	logger := newLogger()
	defer logger.Sync()

	ds, err := loadDataset(dataDir, logger)
	if err != nil {
		return err
	}

	_, res, err := model.Train(ds, predictSeed)
	if err != nil {
		return fmt.Errorf("training skip model: %w", err)
	}

	fmt.Fprintf(out, "Skip Prediction Model\n")
	fmt.Fprintf(out, "Features: %s\n", strings.Join(res.Features, ", "))
	fmt.Fprintf(out, "Train/Test: %d / %d listens (%.1f%% skipped overall)\n",
		res.TrainSize, res.TestSize, res.SkipRate*100)
	fmt.Fprintf(out, "AUC: %.2f\n", res.AUC)
	return nil
}
