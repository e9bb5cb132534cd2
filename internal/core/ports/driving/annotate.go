package driving

import (
	"context"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
)

// WorkItem is one unit of annotation work: a single original QA pair
// presented against its paragraph context. Article and Paragraph are
// indices into the session's dataset and are treated as opaque by UIs.
type WorkItem struct {
	Article   int
	Paragraph int

	// Title is the article title, for display.
	Title string

	// Context is the paragraph text the question is asked about.
	Context string

	// QA is the original pair being perturbed.
	QA domain.QAPair
}

// SessionStats summarises the progress of an annotation session.
type SessionStats struct {
	// Paragraphs is the total number of paragraphs in the plan.
	Paragraphs int

	// Pairs is the total number of perturbable QA pairs in the plan.
	Pairs int

	// ParagraphsVisited is how many distinct paragraphs have had at
	// least one pair answered or skipped.
	ParagraphsVisited int

	// Skipped is how many pairs the annotator skipped.
	Skipped int

	// Perturbed is how many perturbations were committed.
	Perturbed int
}

// SessionService starts annotation sessions from dataset files.
type SessionService interface {
	// Start loads the dataset at inputPath, validates it, and builds
	// a session with paragraphs shuffled by the given seed.
	Start(ctx context.Context, inputPath string, seed int64) (Session, error)
}

// Session is one annotation run over a loaded dataset. Work items
// cover every perturbable pair exactly once; paragraph order is
// randomised at session start, pair order within a paragraph is the
// stored order.
type Session interface {
	// Items returns the full work plan in presentation order.
	Items() []WorkItem

	// CheckQuestion validates a perturbed question before any spans
	// are collected for it. Returns domain.ErrDuplicateQuestion if
	// the question already exists for the item's paragraph, so UIs
	// can re-prompt without asking for spans first.
	CheckQuestion(item WorkItem, question string) error

	// LocateSpan validates a single answer span against the item's
	// context. Returns domain.ErrSpanNotFound if the span does not
	// occur verbatim, so UIs can re-prompt.
	LocateSpan(item WorkItem, span string) (domain.Answer, error)

	// Submit commits a perturbation for the item: the new question
	// plus its answer spans. Fails with domain.ErrDuplicateQuestion
	// if the question already exists for the paragraph, with
	// domain.ErrSpanNotFound if any span is absent from the context,
	// and with domain.ErrNoAnswers if spans is empty. On success the
	// new pair has been appended to the source paragraph.
	Submit(item WorkItem, question string, spans []string) (domain.QAPair, error)

	// Skip records that the annotator declined to perturb the item.
	Skip(item WorkItem)

	// Stats returns current session progress.
	Stats() SessionStats

	// Seed returns the shuffle seed the session was started with.
	Seed() int64

	// Finish writes the merged output file into outputDir and
	// records the session in the journal, if one is configured.
	// Returns the path of the written file. The session accepts no
	// further submissions afterwards.
	Finish(ctx context.Context, outputDir string) (string, error)
}
