package services

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
	"github.com/contrastlabs/perturb-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService starts annotation sessions over dataset files.
type SessionService struct {
	store   driven.DatasetStore
	journal driven.SessionJournal
}

// NewSessionService creates a session service. The journal may be nil,
// in which case completed sessions are not recorded.
func NewSessionService(store driven.DatasetStore, journal driven.SessionJournal) *SessionService {
	return &SessionService{
		store:   store,
		journal: journal,
	}
}

// Start loads and validates the dataset at inputPath and builds an
// annotation session seeded with seed.
func (s *SessionService) Start(ctx context.Context, inputPath string, seed int64) (driving.Session, error) {
	if s.store == nil {
		return nil, domain.ErrInvalidInput
	}

	dataset, err := s.store.Load(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("validating dataset %s: %w", inputPath, err)
	}

	original, perturbed := dataset.QACount()
	logger.Info("loaded %s: %d paragraphs, %d original pairs, %d perturbations",
		inputPath, dataset.ParagraphCount(), original, perturbed)

	return newAnnotationSession(s.store, s.journal, dataset, inputPath, seed), nil
}

// paragraphRef addresses one paragraph within the dataset.
type paragraphRef struct {
	article   int
	paragraph int
}

// Ensure AnnotationSession implements the interface.
var _ driving.Session = (*AnnotationSession)(nil)

// AnnotationSession is one annotation run over a loaded dataset.
// Paragraph order is shuffled once at construction with a seedable
// source; pair order within a paragraph is the stored order.
// Already-perturbed pairs are excluded from the plan so chained
// sessions never perturb a perturbation.
type AnnotationSession struct {
	mu sync.Mutex

	store   driven.DatasetStore
	journal driven.SessionJournal

	dataset   *domain.Dataset
	inputPath string
	seed      int64

	items      []driving.WorkItem
	paragraphs int

	visited   map[paragraphRef]struct{}
	skipped   int
	committed int

	startedAt time.Time
	ended     bool
}

func newAnnotationSession(
	store driven.DatasetStore,
	journal driven.SessionJournal,
	dataset *domain.Dataset,
	inputPath string,
	seed int64,
) *AnnotationSession {
	refs := make([]paragraphRef, 0, dataset.ParagraphCount())
	for ai := range dataset.Data {
		for pi := range dataset.Data[ai].Paragraphs {
			refs = append(refs, paragraphRef{article: ai, paragraph: pi})
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(refs), func(i, j int) {
		refs[i], refs[j] = refs[j], refs[i]
	})

	var items []driving.WorkItem
	for _, ref := range refs {
		article := dataset.Data[ref.article]
		paragraph := article.Paragraphs[ref.paragraph]
		for _, qa := range paragraph.QAs {
			if qa.IsPerturbation() {
				continue
			}
			items = append(items, driving.WorkItem{
				Article:   ref.article,
				Paragraph: ref.paragraph,
				Title:     article.Title,
				Context:   paragraph.Context,
				QA:        qa,
			})
		}
	}

	return &AnnotationSession{
		store:      store,
		journal:    journal,
		dataset:    dataset,
		inputPath:  inputPath,
		seed:       seed,
		items:      items,
		paragraphs: len(refs),
		visited:    make(map[paragraphRef]struct{}),
		startedAt:  time.Now(),
	}
}

// Items returns the full work plan in presentation order.
func (s *AnnotationSession) Items() []driving.WorkItem {
	return s.items
}

// Seed returns the shuffle seed.
func (s *AnnotationSession) Seed() int64 {
	return s.seed
}

// LocateSpan validates a single answer span against the item's context.
func (s *AnnotationSession) LocateSpan(item driving.WorkItem, span string) (domain.Answer, error) {
	return domain.LocateSpan(item.Context, span)
}

// CheckQuestion validates a perturbed question against the item's
// paragraph, including pairs added earlier in this session.
func (s *AnnotationSession) CheckQuestion(item driving.WorkItem, question string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ErrInvalidInput
	}

	paragraph := s.paragraph(item)
	if paragraph == nil {
		return domain.ErrNotFound
	}

	id := domain.QuestionID(paragraph.Context, question)
	if _, exists := paragraph.QuestionIDs()[id]; exists {
		return domain.ErrDuplicateQuestion
	}
	return nil
}

// Submit commits a perturbation for the item.
func (s *AnnotationSession) Submit(item driving.WorkItem, question string, spans []string) (domain.QAPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return domain.QAPair{}, domain.ErrSessionEnded
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.QAPair{}, domain.ErrInvalidInput
	}
	if len(spans) == 0 {
		return domain.QAPair{}, domain.ErrNoAnswers
	}

	paragraph := s.paragraph(item)
	if paragraph == nil {
		return domain.QAPair{}, domain.ErrNotFound
	}

	id := domain.QuestionID(paragraph.Context, question)
	if _, exists := paragraph.QuestionIDs()[id]; exists {
		return domain.QAPair{}, domain.ErrDuplicateQuestion
	}

	answers := make([]domain.Answer, 0, len(spans))
	for _, span := range spans {
		answer, err := domain.LocateSpan(paragraph.Context, span)
		if err != nil {
			return domain.QAPair{}, fmt.Errorf("span %q: %w", span, err)
		}
		answers = append(answers, answer)
	}

	qa := domain.QAPair{
		ID:         id,
		Question:   question,
		Answers:    answers,
		OriginalID: item.QA.ID,
	}
	paragraph.QAs = append(paragraph.QAs, qa)

	s.committed++
	s.visited[paragraphRef{article: item.Article, paragraph: item.Paragraph}] = struct{}{}

	logger.Debug("committed perturbation %s of %s", qa.ID, item.QA.ID)
	return qa, nil
}

// Skip records that the annotator declined to perturb the item.
func (s *AnnotationSession) Skip(item driving.WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}
	s.skipped++
	s.visited[paragraphRef{article: item.Article, paragraph: item.Paragraph}] = struct{}{}
}

// Stats returns current session progress.
func (s *AnnotationSession) Stats() driving.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return driving.SessionStats{
		Paragraphs:        s.paragraphs,
		Pairs:             len(s.items),
		ParagraphsVisited: len(s.visited),
		Skipped:           s.skipped,
		Perturbed:         s.committed,
	}
}

// Finish writes the output file and records the session.
// The output contains every original article and pair unchanged plus
// the perturbations committed this session; the input file is never
// touched.
func (s *AnnotationSession) Finish(ctx context.Context, outputDir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return "", domain.ErrSessionEnded
	}

	finishedAt := time.Now()
	outputPath := filepath.Join(outputDir, domain.OutputFileName(s.inputPath, finishedAt))

	if err := s.store.Save(ctx, s.dataset, outputPath); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	s.ended = true

	if s.journal != nil {
		record := &domain.SessionRecord{
			InputPath:          s.inputPath,
			OutputPath:         outputPath,
			Seed:               s.seed,
			ParagraphsVisited:  len(s.visited),
			PerturbationsAdded: s.committed,
			StartedAt:          s.startedAt,
			FinishedAt:         finishedAt,
		}
		// Journaling is best-effort; a journal failure must not fail
		// a session whose output is already on disk.
		if err := s.journal.Record(ctx, record); err != nil {
			logger.Warn("recording session: %v", err)
		}
	}

	logger.Info("wrote %s (%d perturbations)", outputPath, s.committed)
	return outputPath, nil
}

// paragraph resolves a work item to its paragraph, or nil if the item
// does not address this session's dataset.
func (s *AnnotationSession) paragraph(item driving.WorkItem) *domain.Paragraph {
	if item.Article < 0 || item.Article >= len(s.dataset.Data) {
		return nil
	}
	article := &s.dataset.Data[item.Article]
	if item.Paragraph < 0 || item.Paragraph >= len(article.Paragraphs) {
		return nil
	}
	return &article.Paragraphs[item.Paragraph]
}
