package memory

import (
	"context"
	"sync"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
)

// Ensure PredictionStore implements the interface.
var _ driven.PredictionStore = (*PredictionStore)(nil)

// PredictionStore is an in-memory implementation of
// driven.PredictionStore keyed by path.
type PredictionStore struct {
	mu          sync.RWMutex
	predictions map[string]map[string][]string
}

// NewPredictionStore creates a new in-memory prediction store.
func NewPredictionStore() *PredictionStore {
	return &PredictionStore{
		predictions: make(map[string]map[string][]string),
	}
}

// Put stores predictions under path.
func (s *PredictionStore) Put(path string, predictions map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[path] = predictions
}

// LoadPredictions returns the predictions stored at path.
func (s *PredictionStore) LoadPredictions(_ context.Context, path string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	predictions, ok := s.predictions[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return predictions, nil
}
