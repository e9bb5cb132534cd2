// Package summary provides the end-of-session summary view for the TUI.
package summary

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/styles"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// View is the end-of-session summary view.
type View struct {
	styles *styles.Styles

	outputPath string
	stats      driving.SessionStats
	early      bool

	width  int
	height int
	ready  bool
}

// NewView creates a new summary view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// Init initialises the summary view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult records what the session produced.
func (v *View) SetResult(outputPath string, stats driving.SessionStats, early bool) {
	v.outputPath = outputPath
	v.stats = stats
	v.early = early
}

// Update handles messages for the summary view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// View renders the summary view.
func (v *View) View() string {
	var b strings.Builder

	title := "Session complete"
	if v.early {
		title = "Session ended early"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Success.Render("Wrote " + v.outputPath))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Normal.Render(fmt.Sprintf(
		"Paragraphs visited: %d/%d", v.stats.ParagraphsVisited, v.stats.Paragraphs)))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf(
		"Perturbations added: %d", v.stats.Perturbed)))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf(
		"Pairs skipped: %d", v.stats.Skipped)))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Help.Render("enter/q quit"))
	return b.String()
}
