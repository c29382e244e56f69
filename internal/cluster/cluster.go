// Package cluster groups artists by listening behavior using k-means
// over per-artist skip rate and play count.
package cluster

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"spotify-data-agent/internal/history"
)

// Config holds clustering parameters.
type Config struct {
	NumClusters int // number of clusters to create (default: 3)
	MinPlays    int // only artists with more plays than this are clustered (default: 20)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumClusters: 3,
		MinPlays:    20,
	}
}

// ArtistStats is one clustered artist with its aggregates.
type ArtistStats struct {
	Artist   string
	Plays    int
	TotalMs  int64
	SkipRate float64
	Cluster  int
}

// artistObservation wraps ArtistStats to implement the
// clusters.Observation interface.
type artistObservation struct {
	index  int // position in the stats slice
	coords clusters.Coordinates
}

func (o artistObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o artistObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Partition aggregates events per artist, keeps artists above the play
// threshold, standardizes (skip rate, play count) and runs k-means.
// Artists come back with their cluster index filled in.
func Partition(events []history.Event, cfg Config) ([]ArtistStats, error) {
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}

	stats := aggregate(events, cfg.MinPlays)
	if len(stats) < cfg.NumClusters {
		return nil, fmt.Errorf("need at least %d artists with more than %d plays, have %d",
			cfg.NumClusters, cfg.MinPlays, len(stats))
	}

	coords := standardize(stats)
	var obs clusters.Observations
	for i := range stats {
		obs = append(obs, artistObservation{index: i, coords: coords[i]})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		return nil, fmt.Errorf("partitioning artists: %w", err)
	}

	for clusterIdx, c := range result {
		for _, o := range c.Observations {
			if ao, ok := o.(artistObservation); ok {
				stats[ao.index].Cluster = clusterIdx
			}
		}
	}

	return stats, nil
}

// aggregate computes per-artist totals in first-encounter order and
// drops artists at or below the play threshold.
func aggregate(events []history.Event, minPlays int) []ArtistStats {
	index := make(map[string]int)
	var all []ArtistStats
	for _, e := range events {
		i, ok := index[e.Artist]
		if !ok {
			i = len(all)
			index[e.Artist] = i
			all = append(all, ArtistStats{Artist: e.Artist})
		}
		all[i].Plays++
		all[i].TotalMs += e.MsPlayed
		all[i].SkipRate += float64(e.IsSkipped)
	}

	var kept []ArtistStats
	for _, s := range all {
		s.SkipRate /= float64(s.Plays)
		if s.Plays > minPlays {
			kept = append(kept, s)
		}
	}
	return kept
}

// standardize z-scores (skip rate, play count) so both features weigh
// equally in the distance metric. A zero-variance feature collapses to
// all zeros.
func standardize(stats []ArtistStats) []clusters.Coordinates {
	skip := make([]float64, len(stats))
	plays := make([]float64, len(stats))
	for i, s := range stats {
		skip[i] = s.SkipRate
		plays[i] = float64(s.Plays)
	}
	zscore(skip)
	zscore(plays)

	coords := make([]clusters.Coordinates, len(stats))
	for i := range stats {
		coords[i] = clusters.Coordinates{skip[i], plays[i]}
	}
	return coords
}

func zscore(values []float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(values)))
	if std == 0 {
		std = 1
	}
	for i := range values {
		values[i] = (values[i] - mean) / std
	}
}
