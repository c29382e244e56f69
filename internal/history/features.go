package history

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Proxy skip cutoff: without an authoritative flag, a play under 30
// seconds counts as skipped.
const proxySkipMs = 30000

// DeriveFeatures adds the derived columns in place: temporal features on
// every row, a skip label with a fixed source priority, and the optional
// extended-schema encodings for whichever columns the export supplied.
// Columns are only ever added, never removed.
func DeriveFeatures(ds *Dataset, log *zap.Logger) error {
	if len(ds.Events) == 0 {
		return fmt.Errorf("deriving features: dataset is empty")
	}

	log.Info("beginning feature derivation", zap.Int("rows", len(ds.Events)))

	for i := range ds.Events {
		e := &ds.Events[i]
		e.Hour = e.Timestamp.Hour()
		e.DayOfWeek = mondayIndexed(e.Timestamp)
		if e.DayOfWeek >= 5 {
			e.IsWeekend = 1
		} else {
			e.IsWeekend = 0
		}
	}
	ds.HasHour = true

	// Skip label: exactly one source applies, in priority order.
	switch {
	case ds.HasSkipped:
		log.Info("extended data detected, using authoritative skipped column")
		for i := range ds.Events {
			e := &ds.Events[i]
			if e.Skipped != nil && *e.Skipped {
				e.IsSkipped = 1
			} else {
				e.IsSkipped = 0
			}
		}
	case ds.HasMsPlayed:
		log.Info("standard data detected, deriving proxy skip label from play duration")
		for i := range ds.Events {
			e := &ds.Events[i]
			if e.MsPlayed < proxySkipMs {
				e.IsSkipped = 1
			} else {
				e.IsSkipped = 0
			}
		}
	default:
		for i := range ds.Events {
			ds.Events[i].IsSkipped = 0
		}
	}
	ds.HasSkipLabel = true

	if ds.HasReason {
		encodeReasonStart(ds)
	}
	if ds.HasShuffle {
		for i := range ds.Events {
			e := &ds.Events[i]
			if e.Shuffle != nil && *e.Shuffle {
				e.ShuffleFeature = 1
			} else {
				e.ShuffleFeature = 0
			}
		}
	}
	if ds.HasPlatform {
		for i := range ds.Events {
			e := &ds.Events[i]
			platform := strings.ToLower(e.Platform)
			if strings.Contains(platform, "android") || strings.Contains(platform, "ios") {
				e.IsMobile = 1
			} else {
				e.IsMobile = 0
			}
		}
	}

	log.Info("feature derivation complete")
	return nil
}

// encodeReasonStart assigns dense integer codes over the sorted set of
// distinct reason_start labels. Codes are fit fresh for each dataset and
// are not stable across runs with different label sets.
func encodeReasonStart(ds *Dataset) {
	seen := make(map[string]bool)
	for _, e := range ds.Events {
		seen[e.ReasonStart] = true
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	codes := make(map[string]int, len(labels))
	for i, label := range labels {
		codes[label] = i
	}
	for i := range ds.Events {
		ds.Events[i].ReasonCode = codes[ds.Events[i].ReasonStart]
	}
}
