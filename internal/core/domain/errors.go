package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDataset indicates a dataset with no articles or an
	// article with no paragraphs.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrDuplicateQuestion indicates the perturbed question already
	// exists for the paragraph, either from the original data or an
	// earlier session.
	ErrDuplicateQuestion = errors.New("question already exists in the dataset")

	// ErrSpanNotFound indicates an answer span does not occur in the
	// paragraph context.
	ErrSpanNotFound = errors.New("answer span not found in the context")

	// ErrNoAnswers indicates a perturbation was submitted without any
	// answer spans.
	ErrNoAnswers = errors.New("perturbation has no answer spans")

	// ErrSessionEnded indicates the annotation session has already
	// finished and accepts no further work.
	ErrSessionEnded = errors.New("session ended")
)
