// Package memory provides in-memory implementations of the driven
// storage ports, used by tests and as lightweight fallbacks.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is an in-memory implementation of driven.DatasetStore
// keyed by path. Datasets are deep-copied on both Load and Save so
// callers never share state with the store.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*domain.Dataset
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*domain.Dataset),
	}
}

// Load returns a copy of the dataset stored at path.
func (s *DatasetStore) Load(_ context.Context, path string) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyDataset(dataset)
}

// Save stores a copy of the dataset under path.
func (s *DatasetStore) Save(_ context.Context, dataset *domain.Dataset, path string) error {
	if dataset == nil {
		return domain.ErrInvalidInput
	}
	copied, err := copyDataset(dataset)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[path] = copied
	return nil
}

// Paths returns every stored path. Useful for asserting on writes.
func (s *DatasetStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.datasets))
	for path := range s.datasets {
		paths = append(paths, path)
	}
	return paths
}

// copyDataset deep-copies via the JSON round trip the store already
// guarantees to preserve.
func copyDataset(dataset *domain.Dataset) (*domain.Dataset, error) {
	data, err := json.Marshal(dataset)
	if err != nil {
		return nil, err
	}
	var copied domain.Dataset
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
