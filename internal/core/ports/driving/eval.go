package driving

import "context"

// EvalOptions names the four files an evaluation needs: gold
// annotations and model predictions for both the original and the
// perturbed test sets.
type EvalOptions struct {
	OriginalGold         string
	OriginalPredictions  string
	PerturbedGold        string
	PerturbedPredictions string
}

// SetMetrics aggregates exact-match and F1 over one question set.
type SetMetrics struct {
	// ExactMatch is the mean exact-match score, in [0, 1].
	ExactMatch float64

	// F1 is the mean token-level F1 score, in [0, 1].
	F1 float64

	// Questions is how many questions were scored.
	Questions int
}

// EvalReport carries all evaluation results.
type EvalReport struct {
	// Original covers the unperturbed test set.
	Original SetMetrics

	// Perturbed covers the perturbed test set.
	Perturbed SetMetrics

	// Combined covers both sets together.
	Combined SetMetrics

	// ContrastSets is how many contrast sets were formed.
	ContrastSets int

	// MaxSetSize is the largest contrast set.
	MaxSetSize int

	// MeanSetSize is the average contrast set size.
	MeanSetSize float64

	// StdSetSize is the standard deviation of set sizes.
	StdSetSize float64

	// Consistency is the mean over contrast sets of the minimum
	// exact-match score within the set, in [0, 1].
	Consistency float64
}

// EvalService scores predictions against gold annotations and
// computes contrast-set consistency.
type EvalService interface {
	Evaluate(ctx context.Context, opts EvalOptions) (*EvalReport, error)
}
