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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spotify-data-agent/internal/store"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a listening export into the SQLite database",
	Long: `Normalizes the raw export, derives features, and stores the result in a
local SQLite database for the report command and ad-hoc SQL.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := importExport(viper.GetString("data"), viper.GetString("database"), importReplace)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Clear previously imported listens first")
}

func importExport(dataDir, dbPath string, replace bool) error {
	logger := newLogger()
	defer logger.Sync()

	ds, err := loadDataset(dataDir, logger)
	if err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if replace {
		if err := db.Clear(); err != nil {
			return err
		}
	}

	if err := db.AddListens(ds.Events); err != nil {
		return fmt.Errorf("storing listens: %w", err)
	}

	fmt.Printf("Imported %d listens into %s\n", len(ds.Events), dbPath)
	return nil
}
