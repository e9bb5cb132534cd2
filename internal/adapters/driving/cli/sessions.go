package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past annotation sessions",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	if sessionJournal == nil {
		return errors.New("session journal not configured")
	}

	records, err := sessionJournal.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No recorded sessions.")
		return nil
	}

	for _, record := range records {
		cmd.Printf("%s  %s -> %s\n", record.FinishedAt.Local().Format("2006-01-02 15:04"),
			record.InputPath, record.OutputPath)
		cmd.Printf("    %d perturbations over %d paragraphs in %s (seed %d)\n",
			record.PerturbationsAdded, record.ParagraphsVisited,
			record.Duration().Round(time.Second), record.Seed)
	}
	return nil
}
