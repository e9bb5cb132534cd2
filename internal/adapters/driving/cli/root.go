// Package cli implements the cobra command tree for the perturb CLI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
	"github.com/contrastlabs/perturb-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired once at startup via SetServices.
var (
	sessionService driving.SessionService
	mergeService   driving.MergeService
	evalService    driving.EvalService
	sessionJournal driven.SessionJournal
)

// defaultOutputDir overrides the annotate command's output directory
// when the flag is not given. Set from configuration at startup.
var defaultOutputDir string

// Config holds the services the CLI commands depend on.
type Config struct {
	Session driving.SessionService
	Merge   driving.MergeService
	Eval    driving.EvalService
	Journal driven.SessionJournal

	// OutputDir is the configured default output directory.
	OutputDir string
}

// SetServices wires core services into the command tree.
func SetServices(cfg Config) {
	sessionService = cfg.Session
	mergeService = cfg.Merge
	evalService = cfg.Eval
	sessionJournal = cfg.Journal
	defaultOutputDir = cfg.OutputDir
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "perturb",
	Short: "Create contrast-set perturbations for reading-comprehension datasets",
	Long: `perturb walks a Quoref-style dataset and lets an annotator type
perturbed question/answer pairs against each paragraph. The union of
the original data and the new pairs is written to a timestamped file,
so one session's output can be the next session's input.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		// The configured verbose default stays in force unless the
		// flag is given explicitly.
		if rootCmd.PersistentFlags().Changed("verbose") {
			logger.SetVerbose(verboseFlag)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
