package driven

import "context"

// PredictionStore loads model prediction files for evaluation.
// A prediction file maps question IDs to an answer string or a list
// of answer strings.
type PredictionStore interface {
	// LoadPredictions reads the predictions at path, normalising
	// every value to a slice of answer strings.
	LoadPredictions(ctx context.Context, path string) (map[string][]string, error)
}
