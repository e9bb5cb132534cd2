// Package tui implements the full-screen annotation interface.
// It follows the Elm architecture via Bubbletea: the App routes
// messages between the annotation walk view and the summary view.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/messages"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/styles"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/views/annotate"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/views/summary"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// App is the main TUI application. It implements tea.Model.
type App struct {
	// session is the annotation session being driven.
	session driving.Session

	// outputDir is where the session output is written on finish.
	outputDir string

	// styles holds the TUI styles.
	styles *styles.Styles

	// annotateView walks the QA pairs.
	annotateView *annotate.View

	// summaryView shows the end-of-session result.
	summaryView *summary.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// early records whether the annotator ended the session early.
	early bool

	// outputPath is set once the session output has been written.
	// Empty means the session was aborted and nothing was saved.
	outputPath string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application for one annotation session.
func NewApp(session driving.Session, outputDir string) (*App, error) {
	if session == nil {
		return nil, errors.New("creating app: session is required")
	}

	s := styles.DefaultStyles()
	return &App{
		session:      session,
		outputDir:    outputDir,
		styles:       s,
		annotateView: annotate.NewView(s, session),
		summaryView:  summary.NewView(s),
		currentView:  messages.ViewAnnotate,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("perturb - contrast set annotation"),
		a.annotateView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.annotateView.SetDimensions(msg.Width, msg.Height)
		a.summaryView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global abort with ctrl+c: nothing is written.
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case messages.WalkFinished:
		a.early = a.early || msg.Early
		return a, a.finishSession()

	case messages.SessionSaved:
		if msg.Err != nil {
			a.err = msg.Err
			return a, tea.Quit
		}
		a.outputPath = msg.Path
		a.summaryView.SetResult(msg.Path, a.session.Stats(), a.early)
		a.currentView = messages.ViewSummary
		return a, nil

	case messages.PerturbationCommitted, messages.ItemSkipped:
		// Progress notes; the annotate view already reflects them.
		return a, nil
	}

	switch a.currentView {
	case messages.ViewAnnotate:
		a.annotateView, cmd = a.annotateView.Update(msg)
	case messages.ViewSummary:
		a.summaryView, cmd = a.summaryView.Update(msg)
	}
	return a, cmd
}

// finishSession writes the output file off the Update loop.
func (a *App) finishSession() tea.Cmd {
	return func() tea.Msg {
		path, err := a.session.Finish(context.Background(), a.outputDir)
		return messages.SessionSaved{Path: path, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSummary:
		return a.summaryView.View()
	default:
		return a.annotateView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// OutputPath returns the written output file, or empty if the
// session was aborted before saving.
func (a *App) OutputPath() string {
	return a.outputPath
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
