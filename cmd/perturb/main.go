// Command perturb is a terminal tool for building contrast sets over
// Quoref-style reading-comprehension datasets.
package main

import (
	"fmt"
	"os"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driven/config/file"
	filestorage "github.com/contrastlabs/perturb-cli/internal/adapters/driven/storage/file"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driven/storage/sqlite"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/cli"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
	"github.com/contrastlabs/perturb-cli/internal/core/services"
	"github.com/contrastlabs/perturb-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}
	logger.SetVerbose(configStore.GetBool(file.KeyVerbose))

	datasetStore := filestorage.NewDatasetStore()

	// The journal defaults on; disable with journal.enabled = false.
	var journal driven.SessionJournal
	if enabled, ok := configStore.Get(file.KeyJournalEnabled); !ok || enabled == true {
		j, err := sqlite.NewJournal(configStore.GetString(file.KeyJournalDir))
		if err != nil {
			logger.Warn("Opening session journal: %v", err)
		} else {
			defer j.Close()
			journal = j
		}
	}

	cli.SetServices(cli.Config{
		Session:   services.NewSessionService(datasetStore, journal),
		Merge:     services.NewMergeService(datasetStore),
		Eval:      services.NewEvalService(datasetStore, datasetStore),
		Journal:   journal,
		OutputDir: configStore.GetString(file.KeyOutputDir),
	})

	return cli.Execute()
}
