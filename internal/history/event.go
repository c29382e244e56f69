// Package history loads Spotify listening-history exports and turns them
// into a single normalized, feature-enriched dataset. Two export schemas
// are supported: the older "standard" account download (endTime,
// artistName, trackName, msPlayed) and the newer "extended" streaming
// history (master_metadata_* fields plus context columns like skipped,
// reason_start, shuffle and platform).
package history

import "time"

// Format identifies which export schema a batch of records used.
type Format int

const (
	FormatUnknown Format = iota
	FormatStandard
	FormatExtended
)

func (f Format) String() string {
	switch f {
	case FormatStandard:
		return "standard"
	case FormatExtended:
		return "extended"
	}
	return "unknown"
}

// Event is one play from the listening history. Artist and Track are
// never empty after normalization; missing values become the
// "Unknown Artist" / "Unknown Track" placeholders.
type Event struct {
	Timestamp time.Time
	Artist    string
	Track     string
	MsPlayed  int64

	// Extended-schema fields. Nil/empty when the source export did not
	// carry the column.
	Skipped     *bool
	ReasonStart string
	Shuffle     *bool
	Platform    string

	// Derived by DeriveFeatures.
	Hour           int
	DayOfWeek      int // 0=Monday .. 6=Sunday
	IsWeekend      int
	IsSkipped      int
	ReasonCode     int
	ShuffleFeature int
	IsMobile       int
}

// Dataset is the normalized working table plus the set of columns the
// source export actually supplied. Presence is decided once, over the
// whole concatenated batch, not re-detected per consumer.
type Dataset struct {
	Events []Event
	Format Format

	HasMsPlayed bool
	HasSkipped  bool
	HasReason   bool
	HasShuffle  bool
	HasPlatform bool

	// Set by DeriveFeatures.
	HasHour      bool
	HasSkipLabel bool
}

// mondayIndexed maps time.Weekday (Sunday=0) onto the Monday=0..Sunday=6
// convention the rest of the pipeline uses.
func mondayIndexed(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Weekday returns the event's day of week with Monday=0..Sunday=6,
// computed from the timestamp rather than the derived column so it is
// usable before feature derivation.
func (e Event) Weekday() int {
	return mondayIndexed(e.Timestamp)
}
