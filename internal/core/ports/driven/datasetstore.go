package driven

import (
	"context"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
)

// DatasetStore provides dataset persistence.
// Implementations handle the on-disk JSON format.
type DatasetStore interface {
	// Load reads and decodes the dataset at path.
	// Fails if the file is missing, unreadable, not valid JSON, or
	// structurally invalid. A failed load never leaves partial state.
	Load(ctx context.Context, path string) (*domain.Dataset, error)

	// Save writes the dataset to path. The write is atomic: either
	// the complete file appears at path, or nothing does.
	Save(ctx context.Context, dataset *domain.Dataset, path string) error
}
