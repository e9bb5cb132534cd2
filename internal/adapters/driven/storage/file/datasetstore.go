package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interfaces.
var (
	_ driven.DatasetStore    = (*DatasetStore)(nil)
	_ driven.PredictionStore = (*DatasetStore)(nil)
)

// DatasetStore reads and writes Quoref-style JSON dataset files.
type DatasetStore struct{}

// NewDatasetStore creates a file-backed dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Load reads and decodes the dataset at path.
func (s *DatasetStore) Load(_ context.Context, path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var dataset domain.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return &dataset, nil
}

// Save writes the dataset to path atomically: the JSON is written to
// a temp file in the target directory, synced, then renamed over the
// final name. Readers never observe a truncated file.
func (s *DatasetStore) Save(_ context.Context, dataset *domain.Dataset, path string) error {
	if dataset == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", tmpName, err)
	}
	return nil
}

// LoadPredictions reads a predictions file: a JSON object mapping
// question IDs to an answer string or a list of answer strings.
func (s *DatasetStore) LoadPredictions(_ context.Context, path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading predictions: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing predictions %s: %w", path, err)
	}

	predictions := make(map[string][]string, len(raw))
	for id, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			predictions[id] = []string{single}
			continue
		}
		var multiple []string
		if err := json.Unmarshal(value, &multiple); err != nil {
			return nil, fmt.Errorf("prediction for %s is neither string nor list: %w", id, err)
		}
		predictions[id] = multiple
	}
	return predictions, nil
}
