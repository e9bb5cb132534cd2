package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui"
	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

var (
	annotateSeed      int64
	annotateOutputDir string
	annotatePlain     bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [dataset.json]",
	Short: "Run an interactive annotation session",
	Long: `Walks the dataset's paragraphs in random order and prompts for a
perturbed question and its answer spans against each existing QA pair.

Hit enter on the question prompt to skip a pair. Type "exit" to end
the session early; everything collected so far is written out.
Interrupting with ctrl+c discards the session entirely.

The output file name embeds a timestamp, so the input file is never
overwritten and the output can be fed straight into a later session.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().Int64Var(&annotateSeed, "seed", 0,
		"shuffle seed for paragraph order (0 means time-based)")
	annotateCmd.Flags().StringVarP(&annotateOutputDir, "output-dir", "o", ".",
		"directory the output file is written to")
	annotateCmd.Flags().BoolVar(&annotatePlain, "plain", false,
		"use plain line prompts instead of the full-screen UI")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	seed := annotateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	outputDir := annotateOutputDir
	if !cmd.Flags().Changed("output-dir") && defaultOutputDir != "" {
		outputDir = defaultOutputDir
	}

	session, err := sessionService.Start(cmd.Context(), args[0], seed)
	if err != nil {
		return err
	}

	if len(session.Items()) == 0 {
		return errors.New("dataset has no perturbable QA pairs")
	}

	if annotatePlain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return runPlainSession(cmd, session, outputDir)
	}

	app, err := tui.NewApp(session, outputDir)
	if err != nil {
		return err
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	if path := app.OutputPath(); path != "" {
		printSessionResult(cmd, session, path)
	} else {
		cmd.Println("Session aborted; nothing was written.")
	}
	return app.Err()
}

// runPlainSession walks the work items with line-based prompts.
// It mirrors the full-screen UI's semantics: empty question skips,
// "exit" ends the session early and saves, empty span ends span entry.
func runPlainSession(cmd *cobra.Command, session driving.Session, outputDir string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	items := session.Items()

	lastContext := ""
walk:
	for i, item := range items {
		if item.Context != lastContext {
			lastContext = item.Context
			cmd.Println("\nContext:")
			cmd.Println(item.Context)
		}

		cmd.Printf("\n[%d/%d] Question: %s\n", i+1, len(items), item.QA.Question)
		cmd.Printf("Answers: %s\n", strings.Join(item.QA.AnswerTexts(), "; "))

		// Duplicates are rejected before any spans are asked for.
		var question string
	prompt:
		for {
			cmd.Print("Type a new question, hit enter to skip, or type 'exit' to end session: ")
			if !scanner.Scan() {
				break walk
			}
			question = strings.TrimSpace(scanner.Text())
			switch {
			case question == "":
				session.Skip(item)
				continue walk
			case strings.EqualFold(question, "exit"):
				break walk
			}

			if err := session.CheckQuestion(item, question); err != nil {
				if errors.Is(err, domain.ErrDuplicateQuestion) {
					cmd.Println("This question exists in the dataset! Please try again.")
					continue
				}
				return err
			}
			break prompt
		}

		spans := collectSpans(cmd, scanner, session, item)
		if len(spans) == 0 {
			cmd.Println("No answer spans entered; pair skipped.")
			session.Skip(item)
			continue
		}

		if _, err := session.Submit(item, question, spans); err != nil {
			return err
		}
	}

	path, err := session.Finish(cmd.Context(), outputDir)
	if err != nil {
		return err
	}
	printSessionResult(cmd, session, path)
	return nil
}

// collectSpans prompts for answer spans until an empty line.
// Spans that do not occur in the context are rejected with a retry.
func collectSpans(cmd *cobra.Command, scanner *bufio.Scanner, session driving.Session, item driving.WorkItem) []string {
	cmd.Println("Enter answer spans below. You can copy text from the context and paste here.")
	cmd.Println("Hit enter if you are done inputting all answer spans.")

	var spans []string
	for n := 1; ; {
		cmd.Printf("Span %d: ", n)
		if !scanner.Scan() {
			return spans
		}
		span := scanner.Text()
		if span == "" {
			return spans
		}
		if _, err := session.LocateSpan(item, span); err != nil {
			cmd.Println("Could not find answer span in the context! Please try again.")
			continue
		}
		spans = append(spans, span)
		n++
	}
}

func printSessionResult(cmd *cobra.Command, session driving.Session, path string) {
	stats := session.Stats()
	cmd.Printf("\nWrote %s\n", path)
	cmd.Printf("Paragraphs visited: %d, perturbations added: %d, pairs skipped: %d\n",
		stats.ParagraphsVisited, stats.Perturbed, stats.Skipped)
}
