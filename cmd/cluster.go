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
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spotify-data-agent/internal/cluster"
)

var (
	clusterCount    int
	clusterMinPlays int
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Groups artists by listening behavior",
	Long: `Runs k-means over per-artist skip rate and play count. Only artists
with enough plays are clustered.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printClusters(os.Stdout, viper.GetString("data"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().IntVarP(&clusterCount, "clusters", "k", 3, "Number of clusters")
	clusterCmd.Flags().IntVar(&clusterMinPlays, "min-plays", 20, "Only cluster artists with more plays than this")
}

func printClusters(out io.Writer, dataDir string) error {
	logger := newLogger()
	defer logger.Sync()

	ds, err := loadDataset(dataDir, logger)
	if err != nil {
		return err
	}

	stats, err := cluster.Partition(ds.Events, cluster.Config{
		NumClusters: clusterCount,
		MinPlays:    clusterMinPlays,
	})
	if err != nil {
		return err
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Cluster != stats[j].Cluster {
			return stats[i].Cluster < stats[j].Cluster
		}
		return stats[i].Plays > stats[j].Plays
	})

	rows := [][]string{{"Cluster", "Artist", "Plays", "Minutes", "Skip Rate"}}
	for _, s := range stats {
		rows = append(rows, []string{
			strconv.Itoa(s.Cluster),
			s.Artist,
			strconv.Itoa(s.Plays),
			strconv.FormatInt(s.TotalMs/60000, 10),
			fmt.Sprintf("%.1f%%", s.SkipRate*100),
		})
	}

	fmt.Fprintf(out, "Clustered %d artists into %d groups\n", len(stats), clusterCount)
	return renderTable(out, rows)
}
