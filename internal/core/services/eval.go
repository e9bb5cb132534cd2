package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
	"github.com/contrastlabs/perturb-cli/internal/logger"
)

// Ensure EvalService implements the interface.
var _ driving.EvalService = (*EvalService)(nil)

// EvalService scores predictions against gold annotations and
// computes contrast-set consistency. Scoring follows the SQuAD
// convention: per question, the maximum exact-match and token-F1
// over the accepted answer spans.
type EvalService struct {
	datasets    driven.DatasetStore
	predictions driven.PredictionStore
}

// NewEvalService creates an eval service.
func NewEvalService(datasets driven.DatasetStore, predictions driven.PredictionStore) *EvalService {
	return &EvalService{
		datasets:    datasets,
		predictions: predictions,
	}
}

// instanceScore holds per-question metrics.
type instanceScore struct {
	em float64
	f1 float64
}

// Evaluate scores the original and perturbed sets and reports
// contrast-set consistency.
func (s *EvalService) Evaluate(ctx context.Context, opts driving.EvalOptions) (*driving.EvalReport, error) {
	if s.datasets == nil || s.predictions == nil {
		return nil, domain.ErrInvalidInput
	}

	originalGold, err := s.datasets.Load(ctx, opts.OriginalGold)
	if err != nil {
		return nil, fmt.Errorf("loading original gold: %w", err)
	}
	perturbedGold, err := s.datasets.Load(ctx, opts.PerturbedGold)
	if err != nil {
		return nil, fmt.Errorf("loading perturbed gold: %w", err)
	}
	originalPred, err := s.predictions.LoadPredictions(ctx, opts.OriginalPredictions)
	if err != nil {
		return nil, fmt.Errorf("loading original predictions: %w", err)
	}
	perturbedPred, err := s.predictions.LoadPredictions(ctx, opts.PerturbedPredictions)
	if err != nil {
		return nil, fmt.Errorf("loading perturbed predictions: %w", err)
	}

	originalScores := scoreSet(goldAnswers(originalGold), originalPred)
	perturbedScores := scoreSet(goldAnswers(perturbedGold), perturbedPred)

	report := &driving.EvalReport{
		Original:  summarise(originalScores),
		Perturbed: summarise(perturbedScores),
	}

	combined := make(map[string]instanceScore, len(originalScores)+len(perturbedScores))
	for id, score := range originalScores {
		combined[id] = score
	}
	for id, score := range perturbedScores {
		combined[id] = score
	}
	report.Combined = summarise(combined)

	sets := contrastSets(perturbedGold)
	report.ContrastSets = len(sets)

	var sizes []int
	var consistencies []float64
	for _, set := range sets {
		sizes = append(sizes, len(set))
		minEM := 1.0
		for _, id := range set {
			score, ok := combined[id]
			if !ok {
				// A contrast-set member without a prediction scores zero.
				minEM = 0
				break
			}
			minEM = math.Min(minEM, score.em)
		}
		consistencies = append(consistencies, minEM)
	}
	report.MaxSetSize = maxInt(sizes)
	report.MeanSetSize, report.StdSetSize = meanStd(sizes)
	report.Consistency = mean(consistencies)

	return report, nil
}

// goldAnswers flattens a gold dataset into question ID -> accepted
// answer texts.
func goldAnswers(dataset *domain.Dataset) map[string][]string {
	answers := make(map[string][]string)
	for _, article := range dataset.Data {
		for _, paragraph := range article.Paragraphs {
			for _, qa := range paragraph.QAs {
				answers[qa.ID] = qa.AnswerTexts()
			}
		}
	}
	return answers
}

// scoreSet computes per-question metrics for one gold/prediction pair.
func scoreSet(gold map[string][]string, predictions map[string][]string) map[string]instanceScore {
	scores := make(map[string]instanceScore, len(gold))
	for id, candidates := range gold {
		predicted, ok := predictions[id]
		if !ok {
			logger.Warn("missing prediction for question %s", id)
			scores[id] = instanceScore{}
			continue
		}
		// Multi-span predictions are scored as a single joined answer.
		scores[id] = scoreInstance(strings.Join(predicted, " "), candidates)
	}
	return scores
}

// scoreInstance takes the maximum metric over the accepted answers.
// Questions whose only gold answer normalises to empty score zero.
func scoreInstance(predicted string, candidates []string) instanceScore {
	var best instanceScore
	for _, candidate := range candidates {
		if normalizeAnswer(candidate) == "" {
			continue
		}
		em := exactMatch(predicted, candidate)
		f1 := tokenF1(predicted, candidate)
		best.em = math.Max(best.em, em)
		best.f1 = math.Max(best.f1, f1)
	}
	return best
}

// contrastSets groups question IDs by their original question.
// Each set holds the original ID plus every perturbation of it.
func contrastSets(perturbedGold *domain.Dataset) [][]string {
	grouped := make(map[string]map[string]struct{})
	var order []string
	for _, article := range perturbedGold.Data {
		for _, paragraph := range article.Paragraphs {
			for _, qa := range paragraph.QAs {
				if !qa.IsPerturbation() {
					continue
				}
				set, ok := grouped[qa.OriginalID]
				if !ok {
					set = make(map[string]struct{})
					grouped[qa.OriginalID] = set
					order = append(order, qa.OriginalID)
				}
				set[qa.OriginalID] = struct{}{}
				set[qa.ID] = struct{}{}
			}
		}
	}

	sets := make([][]string, 0, len(order))
	for _, originalID := range order {
		members := make([]string, 0, len(grouped[originalID]))
		for id := range grouped[originalID] {
			members = append(members, id)
		}
		sort.Strings(members)
		sets = append(sets, members)
	}
	return sets
}

// normalizeAnswer lowercases, strips punctuation and the articles
// a/an/the, and collapses whitespace, per the official SQuAD metric.
func normalizeAnswer(answer string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(answer) {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if f == "a" || f == "an" || f == "the" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// exactMatch returns 1 if the normalised answers are identical.
func exactMatch(predicted, gold string) float64 {
	if normalizeAnswer(predicted) == normalizeAnswer(gold) {
		return 1
	}
	return 0
}

// tokenF1 computes bag-of-tokens F1 between normalised answers.
func tokenF1(predicted, gold string) float64 {
	predTokens := strings.Fields(normalizeAnswer(predicted))
	goldTokens := strings.Fields(normalizeAnswer(gold))
	if len(predTokens) == 0 || len(goldTokens) == 0 {
		if len(predTokens) == len(goldTokens) {
			return 1
		}
		return 0
	}

	counts := make(map[string]int, len(goldTokens))
	for _, tok := range goldTokens {
		counts[tok]++
	}
	overlap := 0
	for _, tok := range predTokens {
		if counts[tok] > 0 {
			counts[tok]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(predTokens))
	recall := float64(overlap) / float64(len(goldTokens))
	return 2 * precision * recall / (precision + recall)
}

// summarise aggregates instance scores into set metrics.
func summarise(scores map[string]instanceScore) driving.SetMetrics {
	metrics := driving.SetMetrics{Questions: len(scores)}
	if len(scores) == 0 {
		return metrics
	}
	for _, score := range scores {
		metrics.ExactMatch += score.em
		metrics.F1 += score.f1
	}
	metrics.ExactMatch /= float64(len(scores))
	metrics.F1 /= float64(len(scores))
	return metrics
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanStd(sizes []int) (float64, float64) {
	if len(sizes) == 0 {
		return 0, 0
	}
	values := make([]float64, len(sizes))
	for i, s := range sizes {
		values[i] = float64(s)
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	return m, math.Sqrt(variance / float64(len(values)))
}

func maxInt(sizes []int) int {
	best := 0
	for _, s := range sizes {
		if s > best {
			best = s
		}
	}
	return best
}
