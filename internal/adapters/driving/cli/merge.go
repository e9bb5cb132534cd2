package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge [file.json...]",
	Short: "Merge perturbations from several session outputs",
	Long: `Combines the perturbations found in the given session output files
into a single dataset containing only perturbed paragraphs.
Perturbation IDs and answer offsets are renormalised during the merge.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "perturbations.json",
		"path of the merged dataset")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if mergeService == nil {
		return errors.New("merge service not configured")
	}

	summary, err := mergeService.Merge(cmd.Context(), args, mergeOutput)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	cmd.Printf("Merged %d perturbations (%d articles, %d paragraphs) from %d files into %s\n",
		summary.Perturbations, summary.Articles, summary.Paragraphs,
		summary.InputFiles, mergeOutput)
	return nil
}
