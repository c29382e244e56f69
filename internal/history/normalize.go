package history

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	unknownArtist = "Unknown Artist"
	unknownTrack  = "Unknown Track"
)

// Thresholds for dropping short/noisy plays, in milliseconds. When an
// authoritative skip flag exists a flagged row is kept regardless of
// duration; without one only the flat cutoff applies.
const (
	noiseFloorWithSkipFlag = 5000
	noiseFloorFlat         = 10000
)

// timestampLayouts covers the formats the two export schemas use: the
// standard export writes "2023-11-24 21:04", the extended export RFC3339.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// columnNames maps a detected format onto the source-schema field names
// for the canonical columns.
type columnNames struct {
	ts, artist, track, msPlayed string
}

var standardColumns = columnNames{
	ts:       "endTime",
	artist:   "artistName",
	track:    "trackName",
	msPlayed: "msPlayed",
}

var extendedColumns = columnNames{
	ts:       "ts",
	artist:   "master_metadata_album_artist_name",
	track:    "master_metadata_track_name",
	msPlayed: "ms_played",
}

// Normalize detects which export schema the batch uses, renames to the
// canonical column set, fills missing artist/track text and drops noisy
// rows. Detection is global: a batch is either entirely standard or
// entirely extended, decided by column presence over all records.
func Normalize(records []Record, log *zap.Logger) (*Dataset, error) {
	format := detectFormat(records)
	cols := extendedColumns
	switch format {
	case FormatStandard:
		log.Info("identified standard format, applying column renaming")
		cols = standardColumns
	case FormatExtended:
		log.Info("identified extended format, keeping original column names")
	default:
		log.Warn("unrecognized export format, expecting canonical column names")
	}

	if !hasColumn(records, cols.ts) {
		return nil, fmt.Errorf("records missing required timestamp column %q", cols.ts)
	}

	ds := &Dataset{
		Format:      format,
		HasMsPlayed: hasColumn(records, cols.msPlayed),
		HasSkipped:  hasColumn(records, "skipped"),
		HasReason:   hasColumn(records, "reason_start"),
		HasShuffle:  hasColumn(records, "shuffle"),
		HasPlatform: hasColumn(records, "platform"),
	}

	badTimestamps := 0
	for _, rec := range records {
		raw, ok := asString(rec[cols.ts])
		if !ok || raw == "" {
			badTimestamps++
			continue
		}
		ts, err := parseTimestamp(raw)
		if err != nil {
			badTimestamps++
			continue
		}

		e := Event{Timestamp: ts}

		if name, ok := asString(rec[cols.artist]); ok && name != "" {
			e.Artist = name
		} else {
			e.Artist = unknownArtist
		}
		if name, ok := asString(rec[cols.track]); ok && name != "" {
			e.Track = name
		} else {
			e.Track = unknownTrack
		}
		if ms, ok := asInt(rec[cols.msPlayed]); ok {
			e.MsPlayed = ms
		}

		if ds.HasSkipped {
			if b, ok := asBool(rec["skipped"]); ok {
				e.Skipped = &b
			}
		}
		if ds.HasReason {
			e.ReasonStart, _ = asString(rec["reason_start"])
		}
		if ds.HasShuffle {
			if b, ok := asBool(rec["shuffle"]); ok {
				e.Shuffle = &b
			}
		}
		if ds.HasPlatform {
			e.Platform, _ = asString(rec["platform"])
		}

		ds.Events = append(ds.Events, e)
	}
	if badTimestamps > 0 {
		log.Warn("dropped records with missing or unparseable timestamps",
			zap.Int("count", badTimestamps))
	}
	if len(ds.Events) == 0 {
		return nil, fmt.Errorf("%w: no records with parseable timestamps", ErrNoRecords)
	}

	initial := len(ds.Events)
	ds.Events = filterNoise(ds)
	log.Info("normalization finished",
		zap.Int("rows", len(ds.Events)),
		zap.Int("filtered", initial-len(ds.Events)),
		zap.String("format", format.String()))

	return ds, nil
}

// filterNoise drops short plays. With an authoritative skip flag the
// flag overrides the duration cutoff; without one only duration decides.
// Batches without a duration column are left untouched.
func filterNoise(ds *Dataset) []Event {
	if !ds.HasMsPlayed {
		return ds.Events
	}

	kept := ds.Events[:0]
	for _, e := range ds.Events {
		if ds.HasSkipped {
			flagged := e.Skipped != nil && *e.Skipped
			if e.MsPlayed > noiseFloorWithSkipFlag || flagged {
				kept = append(kept, e)
			}
		} else if e.MsPlayed > noiseFloorFlat {
			kept = append(kept, e)
		}
	}
	return kept
}

func detectFormat(records []Record) Format {
	if hasColumn(records, standardColumns.artist) {
		return FormatStandard
	}
	if hasColumn(records, extendedColumns.artist) {
		return FormatExtended
	}
	return FormatUnknown
}

// hasColumn reports whether any record in the batch carries the key,
// mirroring column presence after a concatenation of heterogeneous
// batches.
func hasColumn(records []Record, key string) bool {
	for _, rec := range records {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// asBool accepts JSON booleans plus the 1.0/0.0 encoding some extended
// exports use for the skipped and shuffle flags.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
