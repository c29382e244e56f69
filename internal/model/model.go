// Package model trains a skip-prediction classifier on the derived
// features. The feature set adapts to the dataset: the temporal base
// features are always used, extended-schema encodings join when the
// export supplied them. Play duration is deliberately excluded; the
// proxy skip label is derived from it.
package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"spotify-data-agent/internal/history"
)

// baseFeatures are available for every dataset.
var baseFeatures = []string{"hour", "day_of_week", "is_weekend"}

// Result summarizes one training run.
type Result struct {
	AUC       float64
	Features  []string
	TrainSize int
	TestSize  int
	SkipRate  float64 // positive-class share over the whole dataset
}

// Model is a categorical naive-Bayes classifier with Laplace smoothing.
type Model struct {
	features    []string
	cardinality []int
	// counts[class][feature][value]
	counts     [2][][]int
	classTotal [2]int
}

// Train builds the skip model on an 80/20 split and reports AUC on the
// held-out part. The split is shuffled with the given seed so runs are
// reproducible.
func Train(ds *history.Dataset, seed int64) (*Model, Result, error) {
	features := featureNames(ds)
	rows, labels := featurize(ds, features)

	if len(rows) < 10 {
		return nil, Result{}, fmt.Errorf("need at least 10 events to train, have %d", len(rows))
	}

	skips := 0
	for _, y := range labels {
		skips += y
	}
	if skips == 0 || skips == len(labels) {
		return nil, Result{}, fmt.Errorf("skip label has a single class, nothing to learn")
	}

	// Shuffled 80/20 split.
	indices := rand.New(rand.NewSource(seed)).Perm(len(rows))
	cut := len(rows) * 8 / 10
	train, test := indices[:cut], indices[cut:]

	m := newModel(features, rows)
	for _, i := range train {
		m.observe(rows[i], labels[i])
	}

	scores := make([]float64, len(test))
	truth := make([]int, len(test))
	for j, i := range test {
		scores[j] = m.Score(rows[i])
		truth[j] = labels[i]
	}
	auc, err := rocAUC(scores, truth)
	if err != nil {
		return nil, Result{}, err
	}

	res := Result{
		AUC:       auc,
		Features:  features,
		TrainSize: len(train),
		TestSize:  len(test),
		SkipRate:  float64(skips) / float64(len(labels)),
	}
	return m, res, nil
}

// featureNames returns the base features plus whichever optional
// encoded features the dataset carries.
func featureNames(ds *history.Dataset) []string {
	features := append([]string{}, baseFeatures...)
	if ds.HasReason {
		features = append(features, "reason_start_encoded")
	}
	if ds.HasShuffle {
		features = append(features, "shuffle_feature")
	}
	if ds.HasPlatform {
		features = append(features, "is_mobile")
	}
	return features
}

func featurize(ds *history.Dataset, features []string) ([][]int, []int) {
	rows := make([][]int, len(ds.Events))
	labels := make([]int, len(ds.Events))
	for i, e := range ds.Events {
		row := make([]int, len(features))
		for f, name := range features {
			switch name {
			case "hour":
				row[f] = e.Hour
			case "day_of_week":
				row[f] = e.DayOfWeek
			case "is_weekend":
				row[f] = e.IsWeekend
			case "reason_start_encoded":
				row[f] = e.ReasonCode
			case "shuffle_feature":
				row[f] = e.ShuffleFeature
			case "is_mobile":
				row[f] = e.IsMobile
			}
		}
		rows[i] = row
		labels[i] = e.IsSkipped
	}
	return rows, labels
}

func newModel(features []string, rows [][]int) *Model {
	m := &Model{
		features:    features,
		cardinality: make([]int, len(features)),
	}
	for _, row := range rows {
		for f, v := range row {
			if v+1 > m.cardinality[f] {
				m.cardinality[f] = v + 1
			}
		}
	}
	for class := 0; class < 2; class++ {
		m.counts[class] = make([][]int, len(features))
		for f := range features {
			m.counts[class][f] = make([]int, m.cardinality[f])
		}
	}
	return m
}

func (m *Model) observe(row []int, label int) {
	m.classTotal[label]++
	for f, v := range row {
		m.counts[label][f][v]++
	}
}

// Score returns the log-odds of the row being a skip. Only the ranking
// matters for AUC, so no normalization to a probability is done.
func (m *Model) Score(row []int) float64 {
	total := m.classTotal[0] + m.classTotal[1]
	score := math.Log(float64(m.classTotal[1]+1)/float64(total+2)) -
		math.Log(float64(m.classTotal[0]+1)/float64(total+2))
	for f, v := range row {
		if v >= m.cardinality[f] {
			continue // unseen value, no evidence either way
		}
		k := float64(m.cardinality[f])
		pSkip := (float64(m.counts[1][f][v]) + 1) / (float64(m.classTotal[1]) + k)
		pKeep := (float64(m.counts[0][f][v]) + 1) / (float64(m.classTotal[0]) + k)
		score += math.Log(pSkip) - math.Log(pKeep)
	}
	return score
}

// rocAUC computes the area under the ROC curve from scores and binary
// labels using the rank-sum formulation, with average ranks for tied
// scores.
func rocAUC(scores []float64, labels []int) (float64, error) {
	type pair struct {
		score float64
		label int
	}
	pairs := make([]pair, len(scores))
	for i := range scores {
		pairs[i] = pair{scores[i], labels[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	var pos, neg int
	for _, p := range pairs {
		pos += p.label
	}
	neg = len(pairs) - pos
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("test split has a single class, cannot compute AUC")
	}

	var rankSum float64
	i := 0
	for i < len(pairs) {
		j := i
		for j < len(pairs) && pairs[j].score == pairs[i].score {
			j++
		}
		// ranks are 1-based; ties share the average rank of the run
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if pairs[k].label == 1 {
				rankSum += avgRank
			}
		}
		i = j
	}

	u := rankSum - float64(pos)*float64(pos+1)/2
	return u / (float64(pos) * float64(neg)), nil
}
