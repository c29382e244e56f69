package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"spotify-data-agent/internal/history"
)

// Agent holds the enriched dataset for the process lifetime and answers
// one question per call. The base table is never mutated; every answer
// is computed over a filtered copy.
type Agent struct {
	data *history.Dataset
}

func New(data *history.Dataset) *Agent {
	return &Agent{data: data}
}

// Coverage returns the first and last event timestamps, for banners.
func (a *Agent) Coverage() (first, last time.Time) {
	for _, e := range a.data.Events {
		if first.IsZero() || e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	return first, last
}

// Answer maps a free-text question onto a canned analytical answer. The
// query's date tokens narrow the dataset; the first matching intent
// keyword picks the handler. Failures come back as fixed strings, never
// as errors.
func (a *Agent) Answer(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))

	filter := ExtractDate(query)
	label := filter.Label()

	events := filterEvents(a.data.Events, filter)
	if len(events) == 0 {
		return fmt.Sprintf("No data found for %s.", label)
	}

	// Intent keywords are tested in a fixed order; first match wins.
	switch {
	case strings.Contains(query, "time") &&
		(strings.Contains(query, "listen") || strings.Contains(query, "mins")):
		return a.timeListened(events, label)

	case strings.Contains(query, "top artist"):
		return a.topArtist(events, label)

	case strings.Contains(query, "top song"):
		return a.topSong(events, label)

	case strings.Contains(query, "top 5"):
		return a.topFive(events, label)

	case strings.Contains(query, "when"):
		return a.peakTimes(events, label, filter)

	case strings.Contains(query, "weekend"):
		return a.weekendVibe(events, label)

	case strings.Contains(query, "skip"):
		return a.mostSkipped(events, label)

	default:
		return fmt.Sprintf("I can filter by %s, but I didn't catch the question.", label)
	}
}

// filterEvents applies the extracted fields as independent, AND-composed
// equality filters against the timestamp.
func filterEvents(events []history.Event, f DateFilter) []history.Event {
	out := make([]history.Event, 0, len(events))
	for _, e := range events {
		if f.Year != nil && e.Timestamp.Year() != *f.Year {
			continue
		}
		if f.Month != nil && int(e.Timestamp.Month()) != *f.Month {
			continue
		}
		if f.Day != nil && e.Timestamp.Day() != *f.Day {
			continue
		}
		if f.Weekday != nil && e.Weekday() != *f.Weekday {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (a *Agent) timeListened(events []history.Event, label string) string {
	var totalMs int64
	for _, e := range events {
		totalMs += e.MsPlayed
	}
	minutes := totalMs / 60000
	return fmt.Sprintf("Time Listened (%s): **%s minutes**.", label, humanize.Comma(minutes))
}

func (a *Agent) topArtist(events []history.Event, label string) string {
	artist, count := modeString(events, func(e history.Event) string { return e.Artist })
	return fmt.Sprintf("Top Artist (%s): **%s** (%d plays).", label, artist, count)
}

func (a *Agent) topSong(events []history.Event, label string) string {
	song, count := modeString(events, func(e history.Event) string { return e.Track })
	artist := ""
	for _, e := range events {
		if e.Track == song {
			artist = e.Artist
			break
		}
	}
	return fmt.Sprintf("Top Song (%s): **%s** by %s (%d plays).", label, song, artist, count)
}

func (a *Agent) topFive(events []history.Event, label string) string {
	ranked := rankByCount(events, func(e history.Event) string { return e.Track })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Top 5 Songs (%s):**\n", label)
	for _, r := range ranked {
		fmt.Fprintf(&b, "- %s: %d\n", r.value, r.count)
	}
	return b.String()
}

func (a *Agent) peakTimes(events []history.Event, label string, filter DateFilter) string {
	if !a.data.HasHour {
		return "Error: Time data missing."
	}

	peakHour := modeHour(events)
	period := "AM"
	if peakHour >= 12 {
		period = "PM"
	}
	friendly := peakHour
	if friendly > 12 {
		friendly -= 12
	}
	if friendly == 0 {
		friendly = 12
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Peak Listening Time (%s):** Around **%d %s**.", label, friendly, period)

	// Only suggest a best day/month when the query didn't already pin
	// the window down that far.
	if filter.Day == nil && filter.Weekday == nil {
		day, _ := modeString(events, func(e history.Event) string {
			return e.Timestamp.Weekday().String()
		})
		fmt.Fprintf(&b, "\n- **Best Day:** %s", day)
	}
	if filter.Month == nil && filter.Day == nil {
		month, _ := modeString(events, func(e history.Event) string {
			return e.Timestamp.Month().String()
		})
		fmt.Fprintf(&b, "\n- **Best Month:** %s", month)
	}
	return b.String()
}

func (a *Agent) weekendVibe(events []history.Event, label string) string {
	var weekend []history.Event
	for _, e := range events {
		if e.IsWeekend == 1 {
			weekend = append(weekend, e)
		}
	}
	if len(weekend) == 0 {
		return "No weekend data."
	}
	artist, _ := modeString(weekend, func(e history.Event) string { return e.Artist })
	return fmt.Sprintf("Weekend Vibe (%s): **%s**.", label, artist)
}

// mostSkipped reports the artist with the highest mean skip rate among
// artists with more than 5 plays in the window.
func (a *Agent) mostSkipped(events []history.Event, label string) string {
	if !a.data.HasSkipLabel {
		return "No skip data."
	}

	type artistSkips struct {
		plays int
		skips int
	}
	stats := make(map[string]*artistSkips)
	var order []string
	for _, e := range events {
		s, ok := stats[e.Artist]
		if !ok {
			s = &artistSkips{}
			stats[e.Artist] = s
			order = append(order, e.Artist)
		}
		s.plays++
		s.skips += e.IsSkipped
	}

	worst := ""
	worstRate := -1.0
	for _, artist := range order {
		s := stats[artist]
		if s.plays <= 5 {
			continue
		}
		rate := float64(s.skips) / float64(s.plays)
		if rate > worstRate {
			worst = artist
			worstRate = rate
		}
	}
	if worst == "" {
		return "Not enough data."
	}
	return fmt.Sprintf("Most Skipped (%s): **%s** (%.1f%% skip rate).", label, worst, worstRate*100)
}

type valueCount struct {
	value string
	count int
}

// rankByCount orders distinct values by descending frequency. Ties keep
// first-encountered-in-input order (stable sort over encounter order).
func rankByCount(events []history.Event, key func(history.Event) string) []valueCount {
	counts := make(map[string]int)
	var order []valueCount
	for _, e := range events {
		k := key(e)
		if counts[k] == 0 {
			order = append(order, valueCount{value: k})
		}
		counts[k]++
	}
	for i := range order {
		order[i].count = counts[order[i].value]
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})
	return order
}

// modeString returns the most frequent key with its count, ties broken
// by first encounter.
func modeString(events []history.Event, key func(history.Event) string) (string, int) {
	ranked := rankByCount(events, key)
	if len(ranked) == 0 {
		return "", 0
	}
	return ranked[0].value, ranked[0].count
}

// modeHour returns the most frequent hour of day, ties broken by the
// lower hour.
func modeHour(events []history.Event) int {
	var counts [24]int
	for _, e := range events {
		counts[e.Hour]++
	}
	best := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return best
}
