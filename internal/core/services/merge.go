package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
	"github.com/contrastlabs/perturb-cli/internal/logger"
)

// Ensure MergeService implements the interface.
var _ driving.MergeService = (*MergeService)(nil)

// MergeService combines perturbations from several session outputs
// into a single perturbations-only dataset. Paragraphs without
// perturbations are dropped; original pairs are dropped too, since
// the merged file accompanies the unperturbed release.
type MergeService struct {
	store driven.DatasetStore
}

// NewMergeService creates a merge service.
func NewMergeService(store driven.DatasetStore) *MergeService {
	return &MergeService{store: store}
}

// articleKey identifies an article across input files.
type articleKey struct {
	title string
	url   string
}

// mergedArticle accumulates perturbed paragraphs for one article,
// preserving first-seen order.
type mergedArticle struct {
	key        articleKey
	order      []string
	paragraphs map[string]*domain.Paragraph
}

// Merge reads the datasets at inputPaths and writes the combined
// perturbations-only dataset to outputPath.
func (s *MergeService) Merge(ctx context.Context, inputPaths []string, outputPath string) (*driving.MergeSummary, error) {
	if s.store == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(inputPaths) == 0 {
		return nil, fmt.Errorf("%w: no input files", domain.ErrInvalidInput)
	}

	var order []articleKey
	merged := make(map[articleKey]*mergedArticle)

	for _, path := range inputPaths {
		dataset, err := s.store.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}

		for _, article := range dataset.Data {
			key := articleKey{title: article.Title, url: article.URL}
			for _, paragraph := range article.Paragraphs {
				perturbed, err := perturbedPairs(paragraph)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				if len(perturbed) == 0 {
					continue
				}

				target, ok := merged[key]
				if !ok {
					target = &mergedArticle{
						key:        key,
						paragraphs: make(map[string]*domain.Paragraph),
					}
					merged[key] = target
					order = append(order, key)
				}

				para, ok := target.paragraphs[paragraph.ContextID]
				if !ok {
					para = &domain.Paragraph{
						Context:   paragraph.Context,
						ContextID: paragraph.ContextID,
					}
					target.paragraphs[paragraph.ContextID] = para
					target.order = append(target.order, paragraph.ContextID)
				}
				para.QAs = append(para.QAs, perturbed...)
			}
		}
	}

	summary := &driving.MergeSummary{InputFiles: len(inputPaths)}
	result := &domain.Dataset{Data: make([]domain.Article, 0, len(order))}
	for _, key := range order {
		article := merged[key]
		out := domain.Article{Title: key.title, URL: key.url}
		for _, contextID := range article.order {
			para := article.paragraphs[contextID]
			summary.Paragraphs++
			summary.Perturbations += len(para.QAs)
			out.Paragraphs = append(out.Paragraphs, *para)
		}
		summary.Articles++
		result.Data = append(result.Data, out)
	}

	if err := s.store.Save(ctx, result, outputPath); err != nil {
		return nil, fmt.Errorf("writing merged dataset: %w", err)
	}

	logger.Info("merged %d perturbations from %d files into %s",
		summary.Perturbations, summary.InputFiles, outputPath)
	return summary, nil
}

// perturbedPairs extracts the perturbations from a paragraph with IDs
// and answer offsets normalised.
//
// Two perturbation encodings occur in the wild: pairs carrying an
// explicit original_id, and legacy pairs whose ID is the original ID
// plus an underscore-separated counter. Both are normalised to the
// explicit form, every ID is recomputed from the context ID and the
// question, and every answer_start is recomputed from the context.
func perturbedPairs(paragraph domain.Paragraph) ([]domain.QAPair, error) {
	var out []domain.QAPair
	for _, qa := range paragraph.QAs {
		switch {
		case qa.IsPerturbation():
		case strings.Contains(qa.ID, "_"):
			qa.OriginalID = qa.ID[:strings.Index(qa.ID, "_")]
		default:
			continue
		}

		qa.ID = domain.QuestionID(paragraph.ContextID, qa.Question)
		answers := make([]domain.Answer, len(qa.Answers))
		for i, answer := range qa.Answers {
			located, err := domain.LocateSpan(paragraph.Context, answer.Text)
			if err != nil {
				return nil, fmt.Errorf(
					"answer %q for question %q: %w", answer.Text, qa.Question, err)
			}
			answers[i] = located
		}
		qa.Answers = answers
		out = append(out, qa)
	}
	return out, nil
}
