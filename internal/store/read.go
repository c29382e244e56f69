package store

import (
	"database/sql"
	"fmt"
	"time"
)

type ArtistCount struct {
	Artist  string
	Listens int64
}

type TrackCount struct {
	Track   string
	Artist  string
	Listens int64
}

// ListenCount returns the number of stored listens in [start, end].
func (s *Store) ListenCount(start, end time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		"SELECT COUNT(id) FROM Listen WHERE ts BETWEEN ? AND ?",
		start.Unix(), end.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting listens: %w", err)
	}
	return count, nil
}

// Coverage returns the first and last stored listen timestamps.
func (s *Store) Coverage() (first, last time.Time, err error) {
	var minTs, maxTs sql.NullInt64
	err = s.db.QueryRow("SELECT MIN(ts), MAX(ts) FROM Listen").Scan(&minTs, &maxTs)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("reading coverage: %w", err)
	}
	if !minTs.Valid {
		return time.Time{}, time.Time{}, nil
	}
	return time.Unix(minTs.Int64, 0).UTC(), time.Unix(maxTs.Int64, 0).UTC(), nil
}

// TopArtists returns artists by descending listen count in the range.
func (s *Store) TopArtists(start, end time.Time, limit int) ([]ArtistCount, error) {
	const query = `
	SELECT artist, COUNT(id)
	FROM Listen
	WHERE ts BETWEEN ? AND ?
	GROUP BY artist
	ORDER BY COUNT(*) DESC, MIN(id) ASC
	LIMIT ?
	;
	`
	rows, err := s.db.Query(query, start.Unix(), end.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer rows.Close()

	var artists []ArtistCount
	for rows.Next() {
		var a ArtistCount
		if err := rows.Scan(&a.Artist, &a.Listens); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// TopTracks returns tracks by descending listen count in the range.
func (s *Store) TopTracks(start, end time.Time, limit int) ([]TrackCount, error) {
	const query = `
	SELECT track, artist, COUNT(id)
	FROM Listen
	WHERE ts BETWEEN ? AND ?
	GROUP BY track, artist
	ORDER BY COUNT(*) DESC, MIN(id) ASC
	LIMIT ?
	;
	`
	rows, err := s.db.Query(query, start.Unix(), end.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []TrackCount
	for rows.Next() {
		var t TrackCount
		if err := rows.Scan(&t.Track, &t.Artist, &t.Listens); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// SkipRates returns per-artist mean skip rates for artists with more
// than minPlays listens in the range, ordered by rate descending.
func (s *Store) SkipRates(start, end time.Time, minPlays int64) ([]ArtistSkipRate, error) {
	const query = `
	SELECT artist, COUNT(id), AVG(is_skipped)
	FROM Listen
	WHERE ts BETWEEN ? AND ?
	GROUP BY artist
	HAVING COUNT(id) > ?
	ORDER BY AVG(is_skipped) DESC, MIN(id) ASC
	;
	`
	rows, err := s.db.Query(query, start.Unix(), end.Unix(), minPlays)
	if err != nil {
		return nil, fmt.Errorf("querying skip rates: %w", err)
	}
	defer rows.Close()

	var rates []ArtistSkipRate
	for rows.Next() {
		var r ArtistSkipRate
		if err := rows.Scan(&r.Artist, &r.Listens, &r.SkipRate); err != nil {
			return nil, fmt.Errorf("scanning skip rate: %w", err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

type ArtistSkipRate struct {
	Artist   string
	Listens  int64
	SkipRate float64
}
