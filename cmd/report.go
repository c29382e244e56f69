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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spotify-data-agent/internal/store"
)

var (
	reportArtists int
	reportTracks  int
	reportSkips   int
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Summarizes imported listens over a date range",
	Long: `Reads the SQLite database filled by import. Date strings look like
'yyyy', 'yyyy-mm', or 'yyyy-mm-dd', or are relative like '30d' or '6m'.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printReport(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportArtists, "artists", 10, "Number of top artists to show")
	reportCmd.Flags().IntVar(&reportTracks, "tracks", 10, "Number of top tracks to show")
	reportCmd.Flags().IntVar(&reportSkips, "skips", 5, "Number of most-skipped artists to show")
}

func printReport(out io.Writer, dbPath string, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	total, err := db.ListenCount(start, end)
	if err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("No listens between %s and %s - run import first.",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	fmt.Fprintf(out, "Listening Report\n")
	fmt.Fprintf(out, "Period: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Fprintf(out, "Total Listens: %d\n\n", total)

	if reportArtists > 0 {
		artists, err := db.TopArtists(start, end, reportArtists)
		if err != nil {
			return err
		}
		rows := [][]string{{"Artist", "Listens"}}
		for _, a := range artists {
			rows = append(rows, []string{a.Artist, strconv.FormatInt(a.Listens, 10)})
		}
		fmt.Fprintf(out, "## Top %d Artists\n", reportArtists)
		if err := renderTable(out, rows); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if reportTracks > 0 {
		tracks, err := db.TopTracks(start, end, reportTracks)
		if err != nil {
			return err
		}
		rows := [][]string{{"Track", "Artist", "Listens"}}
		for _, t := range tracks {
			rows = append(rows, []string{t.Track, t.Artist, strconv.FormatInt(t.Listens, 10)})
		}
		fmt.Fprintf(out, "## Top %d Tracks\n", reportTracks)
		if err := renderTable(out, rows); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if reportSkips > 0 {
		rates, err := db.SkipRates(start, end, 5)
		if err != nil {
			return err
		}
		if len(rates) > reportSkips {
			rates = rates[:reportSkips]
		}
		rows := [][]string{{"Artist", "Listens", "Skip Rate"}}
		for _, r := range rates {
			rows = append(rows, []string{
				r.Artist,
				strconv.FormatInt(r.Listens, 10),
				fmt.Sprintf("%.1f%%", r.SkipRate*100),
			})
		}
		fmt.Fprintf(out, "## Most Skipped Artists\n")
		if err := renderTable(out, rows); err != nil {
			return err
		}
	}

	return nil
}

func renderTable(out io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(rows[0])
	for _, row := range rows[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
