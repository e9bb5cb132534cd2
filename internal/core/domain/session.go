package domain

import "time"

// SessionRecord is the journal entry for one completed annotation
// session. Records are written once, after the output file has been
// persisted, and never updated.
type SessionRecord struct {
	// ID is the unique identifier for the session.
	ID string

	// InputPath is the dataset file the session was started with.
	InputPath string

	// OutputPath is the dataset file the session wrote.
	OutputPath string

	// Seed is the shuffle seed used for paragraph ordering.
	Seed int64

	// ParagraphsVisited is how many paragraphs the annotator saw.
	ParagraphsVisited int

	// PerturbationsAdded is how many new QA pairs were committed.
	PerturbationsAdded int

	// StartedAt is when the session began.
	StartedAt time.Time

	// FinishedAt is when the output file was written.
	FinishedAt time.Time
}

// Duration returns how long the session ran.
func (r SessionRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
