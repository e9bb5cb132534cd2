package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

var evalOpts driving.EvalOptions

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate predictions over original and perturbed sets",
	Long: `Scores model predictions against gold annotations with exact-match
and token F1, then reports consistency over contrast sets: for each
original question and its perturbations, the model is consistent only
if it answers every variant exactly.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalOpts.OriginalGold, "original-gold", "",
		"original test set with answers")
	evalCmd.Flags().StringVar(&evalOpts.OriginalPredictions, "original-predictions", "",
		"predictions over the original test set")
	evalCmd.Flags().StringVar(&evalOpts.PerturbedGold, "perturbed-gold", "",
		"perturbed test set with answers")
	evalCmd.Flags().StringVar(&evalOpts.PerturbedPredictions, "perturbed-predictions", "",
		"predictions over the perturbed test set")
	for _, flag := range []string{
		"original-gold", "original-predictions", "perturbed-gold", "perturbed-predictions",
	} {
		_ = evalCmd.MarkFlagRequired(flag)
	}
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	if evalService == nil {
		return errors.New("eval service not configured")
	}

	report, err := evalService.Evaluate(cmd.Context(), evalOpts)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	printSetMetrics(cmd, "original", report.Original)
	printSetMetrics(cmd, "perturbed", report.Perturbed)
	printSetMetrics(cmd, "combined", report.Combined)

	cmd.Println("\nMetrics on contrast sets:")
	cmd.Printf("Number of contrast sets: %d\n", report.ContrastSets)
	cmd.Printf("Max contrast set size: %d\n", report.MaxSetSize)
	cmd.Printf("Mean set size: %.2f (+/- %.2f)\n", report.MeanSetSize, report.StdSetSize)
	cmd.Printf("Consistency: %.2f\n", report.Consistency*100)
	return nil
}

func printSetMetrics(cmd *cobra.Command, name string, metrics driving.SetMetrics) {
	cmd.Printf("\nMetrics on %s dataset (%d questions)\n", name, metrics.Questions)
	cmd.Printf("Exact-match accuracy %.2f\n", metrics.ExactMatch*100)
	cmd.Printf("F1 score %.2f\n", metrics.F1*100)
}
