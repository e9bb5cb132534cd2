package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// mockMergeService implements driving.MergeService for testing.
type mockMergeService struct {
	summary    *driving.MergeSummary
	err        error
	inputPaths []string
	outputPath string
}

func (m *mockMergeService) Merge(_ context.Context, inputPaths []string, outputPath string) (*driving.MergeSummary, error) {
	m.inputPaths = inputPaths
	m.outputPath = outputPath
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func setupMergeTest(service *mockMergeService) func() {
	oldService := mergeService
	mergeService = service
	return func() {
		mergeService = oldService
		rootCmd.SetArgs(nil)
	}
}

func TestMergeCmd_Use(t *testing.T) {
	assert.Equal(t, "merge [file.json...]", mergeCmd.Use)
}

func TestMergeCmd_RequiresArgs(t *testing.T) {
	cleanup := setupMergeTest(&mockMergeService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"merge"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestMergeCmd_Executes(t *testing.T) {
	service := &mockMergeService{
		summary: &driving.MergeSummary{
			InputFiles:    2,
			Articles:      3,
			Paragraphs:    5,
			Perturbations: 12,
		},
	}
	cleanup := setupMergeTest(service)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"merge", "-o", "merged.json", "a.json", "b.json"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, service.inputPaths)
	assert.Equal(t, "merged.json", service.outputPath)
	assert.Contains(t, buf.String(), "Merged 12 perturbations (3 articles, 5 paragraphs) from 2 files into merged.json")
}

func TestMergeCmd_ServiceError(t *testing.T) {
	service := &mockMergeService{err: errors.New("bad dataset")}
	cleanup := setupMergeTest(service)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"merge", "a.json"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge failed")
}

func TestMergeCmd_ServiceNotConfigured(t *testing.T) {
	oldService := mergeService
	mergeService = nil
	defer func() {
		mergeService = oldService
		rootCmd.SetArgs(nil)
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"merge", "a.json"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}
