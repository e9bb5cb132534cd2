package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// mockEvalService implements driving.EvalService for testing.
type mockEvalService struct {
	report *driving.EvalReport
	err    error
	opts   driving.EvalOptions
}

func (m *mockEvalService) Evaluate(_ context.Context, opts driving.EvalOptions) (*driving.EvalReport, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func setupEvalTest(service *mockEvalService) func() {
	oldService := evalService
	evalService = service
	return func() {
		evalService = oldService
		rootCmd.SetArgs(nil)
	}
}

func evalArgs() []string {
	return []string{
		"eval",
		"--original-gold", "orig.json",
		"--original-predictions", "orig_pred.json",
		"--perturbed-gold", "pert.json",
		"--perturbed-predictions", "pert_pred.json",
	}
}

func TestEvalCmd_Use(t *testing.T) {
	assert.Equal(t, "eval", evalCmd.Use)
}

func TestEvalCmd_RequiresFlags(t *testing.T) {
	cleanup := setupEvalTest(&mockEvalService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"eval"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestEvalCmd_Executes(t *testing.T) {
	service := &mockEvalService{
		report: &driving.EvalReport{
			Original:     driving.SetMetrics{ExactMatch: 0.701, F1: 0.7523, Questions: 100},
			Perturbed:    driving.SetMetrics{ExactMatch: 0.55, F1: 0.60, Questions: 80},
			Combined:     driving.SetMetrics{ExactMatch: 0.634, F1: 0.6846, Questions: 180},
			ContrastSets: 40,
			MaxSetSize:   4,
			MeanSetSize:  2.5,
			StdSetSize:   0.5,
			Consistency:  0.425,
		},
	}
	cleanup := setupEvalTest(service)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(evalArgs())

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "orig.json", service.opts.OriginalGold)
	assert.Equal(t, "orig_pred.json", service.opts.OriginalPredictions)
	assert.Equal(t, "pert.json", service.opts.PerturbedGold)
	assert.Equal(t, "pert_pred.json", service.opts.PerturbedPredictions)

	out := buf.String()
	assert.Contains(t, out, "Metrics on original dataset (100 questions)")
	assert.Contains(t, out, "Exact-match accuracy 70.10")
	assert.Contains(t, out, "F1 score 75.23")
	assert.Contains(t, out, "Metrics on perturbed dataset (80 questions)")
	assert.Contains(t, out, "Metrics on combined dataset (180 questions)")
	assert.Contains(t, out, "Number of contrast sets: 40")
	assert.Contains(t, out, "Max contrast set size: 4")
	assert.Contains(t, out, "Mean set size: 2.50 (+/- 0.50)")
	assert.Contains(t, out, "Consistency: 42.50")
}

func TestEvalCmd_ServiceNotConfigured(t *testing.T) {
	oldService := evalService
	evalService = nil
	defer func() {
		evalService = oldService
		rootCmd.SetArgs(nil)
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(evalArgs())

	err := rootCmd.Execute()

	assert.Error(t, err)
}
