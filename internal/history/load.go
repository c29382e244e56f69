package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Record is one raw export row: source-schema field names to values, as
// decoded from JSON.
type Record map[string]any

// ErrNoRecords is returned when the input directory yields zero
// parseable records.
var ErrNoRecords = errors.New("no listening records found")

// LoadDir reads every *.json batch in dir and concatenates the records.
// A batch may be either an array of objects or a single object (some
// exports contain one bare record); the latter is wrapped. Unreadable
// batches are logged and skipped, the rest of the directory is still
// used.
func LoadDir(dir string, log *zap.Logger) ([]Record, error) {
	log.Info("reading export batches", zap.String("dir", dir))

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no JSON files in %s", ErrNoRecords, dir)
	}
	sort.Strings(files)

	var records []Record
	for _, file := range files {
		batch, err := loadBatch(file)
		if err != nil {
			log.Warn("skipping unreadable batch", zap.String("file", file), zap.Error(err))
			continue
		}
		records = append(records, batch...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no parseable records in %s", ErrNoRecords, dir)
	}

	log.Info("loaded records", zap.Int("count", len(records)), zap.Int("batches", len(files)))
	return records, nil
}

func loadBatch(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var asList []Record
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asOne Record
	if err := json.Unmarshal(raw, &asOne); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return []Record{asOne}, nil
}
