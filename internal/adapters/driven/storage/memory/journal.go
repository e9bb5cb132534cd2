package memory

import (
	"context"
	"sync"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
)

// Ensure SessionJournal implements the interface.
var _ driven.SessionJournal = (*SessionJournal)(nil)

// SessionJournal is an in-memory implementation of
// driven.SessionJournal.
type SessionJournal struct {
	mu      sync.RWMutex
	records []domain.SessionRecord
}

// NewSessionJournal creates a new in-memory session journal.
func NewSessionJournal() *SessionJournal {
	return &SessionJournal{}
}

// Record appends a session record.
func (j *SessionJournal) Record(_ context.Context, record *domain.SessionRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, *record)
	return nil
}

// List returns recorded sessions, most recent first.
func (j *SessionJournal) List(_ context.Context) ([]domain.SessionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]domain.SessionRecord, len(j.records))
	for i, record := range j.records {
		out[len(j.records)-1-i] = record
	}
	return out, nil
}

// Close is a no-op for the in-memory journal.
func (j *SessionJournal) Close() error {
	return nil
}
