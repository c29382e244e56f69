/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"spotify-data-agent/internal/history"
)

// loadDataset runs the full ingestion pipeline: read the export
// batches, normalize the schema, derive features. Every command that
// needs the in-memory dataset goes through here.
func loadDataset(dir string, logger *zap.Logger) (*history.Dataset, error) {
	records, err := history.LoadDir(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("loading export from %q: %w", dir, err)
	}

	ds, err := history.Normalize(records, logger)
	if err != nil {
		return nil, fmt.Errorf("normalizing records: %w", err)
	}

	if err := history.DeriveFeatures(ds, logger); err != nil {
		return nil, fmt.Errorf("deriving features: %w", err)
	}

	return ds, nil
}
