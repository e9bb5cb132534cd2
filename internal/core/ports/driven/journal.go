package driven

import (
	"context"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
)

// SessionJournal records completed annotation sessions.
// Journaling is best-effort: callers treat failures as non-fatal.
type SessionJournal interface {
	// Record persists a completed session.
	Record(ctx context.Context, record *domain.SessionRecord) error

	// List returns all recorded sessions, most recent first.
	List(ctx context.Context) ([]domain.SessionRecord, error)

	// Close releases any underlying resources.
	Close() error
}
