package store

import (
	"testing"
	"time"

	"spotify-data-agent/internal/history"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEvents() []history.Event {
	day := time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC)
	var events []history.Event
	add := func(offset time.Duration, artist, track string, skipped int) {
		ts := day.Add(offset)
		events = append(events, history.Event{
			Timestamp: ts,
			Artist:    artist,
			Track:     track,
			MsPlayed:  200000,
			IsSkipped: skipped,
			Hour:      ts.Hour(),
			DayOfWeek: (int(ts.Weekday()) + 6) % 7,
		})
	}

	for i := 0; i < 8; i++ {
		add(time.Duration(i)*time.Hour, "Artist A", "Track 1", 0)
	}
	for i := 0; i < 7; i++ {
		add(time.Duration(i)*time.Minute, "Artist B", "Track 2", 1)
	}
	add(0, "Artist C", "Track 3", 0)
	return events
}

func rangeAll() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestAddListensAndCount(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}

	start, end := rangeAll()
	count, err := s.ListenCount(start, end)
	if err != nil {
		t.Fatalf("ListenCount() error: %v", err)
	}
	if count != 16 {
		t.Errorf("ListenCount() = %d, want 16", count)
	}

	// Outside the stored window.
	count, err = s.ListenCount(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListenCount() error: %v", err)
	}
	if count != 0 {
		t.Errorf("ListenCount() outside window = %d, want 0", count)
	}
}

func TestTopArtists(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}

	start, end := rangeAll()
	artists, err := s.TopArtists(start, end, 2)
	if err != nil {
		t.Fatalf("TopArtists() error: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("Expected 2 artists, got %d", len(artists))
	}
	if artists[0].Artist != "Artist A" || artists[0].Listens != 8 {
		t.Errorf("Top artist = %+v, want Artist A with 8 listens", artists[0])
	}
	if artists[1].Artist != "Artist B" || artists[1].Listens != 7 {
		t.Errorf("Second artist = %+v, want Artist B with 7 listens", artists[1])
	}
}

func TestTopTracks(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}

	start, end := rangeAll()
	tracks, err := s.TopTracks(start, end, 10)
	if err != nil {
		t.Fatalf("TopTracks() error: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(tracks))
	}
	if tracks[0].Track != "Track 1" || tracks[0].Artist != "Artist A" {
		t.Errorf("Top track = %+v", tracks[0])
	}
}

func TestSkipRates(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}

	start, end := rangeAll()
	rates, err := s.SkipRates(start, end, 5)
	if err != nil {
		t.Fatalf("SkipRates() error: %v", err)
	}
	// Artist C has a single play and is filtered by the threshold.
	if len(rates) != 2 {
		t.Fatalf("Expected 2 artists over the play threshold, got %d", len(rates))
	}
	if rates[0].Artist != "Artist B" || rates[0].SkipRate != 1.0 {
		t.Errorf("Most skipped = %+v, want Artist B at 1.0", rates[0])
	}
}

func TestCoverage(t *testing.T) {
	s := setupTestStore(t)

	// Empty store: zero times, no error.
	first, last, err := s.Coverage()
	if err != nil {
		t.Fatalf("Coverage() on empty store: %v", err)
	}
	if !first.IsZero() || !last.IsZero() {
		t.Errorf("Expected zero coverage on empty store, got %v - %v", first, last)
	}

	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}
	first, last, err = s.Coverage()
	if err != nil {
		t.Fatalf("Coverage() error: %v", err)
	}
	if first.IsZero() || last.Before(first) {
		t.Errorf("Unexpected coverage %v - %v", first, last)
	}
}

func TestClear(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AddListens(testEvents()); err != nil {
		t.Fatalf("AddListens() error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	start, end := rangeAll()
	count, err := s.ListenCount(start, end)
	if err != nil {
		t.Fatalf("ListenCount() error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty store after Clear, got %d listens", count)
	}
}
