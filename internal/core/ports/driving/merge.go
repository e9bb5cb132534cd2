package driving

import "context"

// MergeSummary reports what a merge produced.
type MergeSummary struct {
	// InputFiles is how many dataset files were read.
	InputFiles int

	// Articles is how many articles contained perturbations.
	Articles int

	// Paragraphs is how many paragraphs contained perturbations.
	Paragraphs int

	// Perturbations is the total number of perturbed pairs written.
	Perturbations int
}

// MergeService combines perturbations from several annotation session
// outputs into a single perturbations-only dataset.
type MergeService interface {
	// Merge reads the datasets at inputPaths, keeps only paragraphs
	// that carry perturbations, normalises perturbation IDs and
	// answer offsets, and writes the result to outputPath.
	Merge(ctx context.Context, inputPaths []string, outputPath string) (*MergeSummary, error)
}
