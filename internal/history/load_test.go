package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadDir_readsArrayAndSingleObjectBatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "history_0.json", `[
		{"endTime": "2024-08-15 14:30", "artistName": "A", "trackName": "T1", "msPlayed": 200000},
		{"endTime": "2024-08-16 09:00", "artistName": "B", "trackName": "T2", "msPlayed": 150000}
	]`)
	writeFile(t, dir, "history_1.json", `{"endTime": "2024-08-17 20:00", "artistName": "C", "trackName": "T3", "msPlayed": 100000}`)

	records, err := LoadDir(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[2]["artistName"] != "C" {
		t.Errorf("Expected single-object batch to be wrapped, got %v", records[2])
	}
}

func TestLoadDir_skipsUnreadableBatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{not json`)
	writeFile(t, dir, "good.json", `[{"endTime": "2024-08-15 14:30", "artistName": "A", "trackName": "T", "msPlayed": 200000}]`)

	records, err := LoadDir(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record from the readable batch, got %d", len(records))
	}
}

func TestLoadDir_emptyDirectory(t *testing.T) {
	_, err := LoadDir(t.TempDir(), zap.NewNop())
	if err == nil {
		t.Fatal("Expected error for directory with no JSON files")
	}
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("Expected ErrNoRecords, got %v", err)
	}
}

func TestLoadDir_onlyUnreadableBatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `not json at all`)

	_, err := LoadDir(dir, zap.NewNop())
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("Expected ErrNoRecords when every batch is unreadable, got %v", err)
	}
}
