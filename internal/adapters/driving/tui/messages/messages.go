// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAnnotate is the annotation walk view.
	ViewAnnotate ViewType = iota
	// ViewSummary is the end-of-session summary view.
	ViewSummary
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAnnotate:
		return "annotate"
	case ViewSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// PerturbationCommitted signals a perturbation was appended to the
// session's dataset.
type PerturbationCommitted struct {
	ID         string
	OriginalID string
}

// ItemSkipped signals the annotator declined to perturb a pair.
type ItemSkipped struct {
	OriginalID string
}

// WalkFinished signals the annotation walk is over, either because
// every pair was processed or the annotator ended the session early.
type WalkFinished struct {
	// Early is true when the annotator ended the session before the
	// last pair.
	Early bool
}

// SessionSaved carries the result of writing the session output.
type SessionSaved struct {
	Path string
	Err  error
}
