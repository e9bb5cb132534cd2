// Package annotate provides the annotation walk view for the TUI.
// It presents one QA pair at a time against its paragraph context and
// collects a perturbed question plus its answer spans.
package annotate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/messages"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/styles"
	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// mode tracks which prompt is active for the current pair.
type mode int

const (
	// modeQuestion collects the perturbed question.
	modeQuestion mode = iota
	// modeSpans collects answer spans for the entered question.
	modeSpans
)

// View is the annotation walk view.
type View struct {
	styles  *styles.Styles
	session driving.Session

	items []driving.WorkItem
	index int

	mode     mode
	question string
	spans    []string

	questionInput textinput.Model
	spanInput     textinput.Model

	// notice is a transient status line (validation feedback).
	notice    string
	noticeErr bool

	width  int
	height int
	ready  bool
}

// NewView creates a new annotation view over the session's work plan.
func NewView(s *styles.Styles, session driving.Session) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	questionInput := textinput.New()
	questionInput.Placeholder = "new question (enter to skip, 'exit' to end session)"
	questionInput.CharLimit = 512
	questionInput.Focus()

	spanInput := textinput.New()
	spanInput.Placeholder = "answer span (enter on empty line when done)"
	spanInput.CharLimit = 512

	var items []driving.WorkItem
	if session != nil {
		items = session.Items()
	}

	return &View{
		styles:        s,
		session:       session,
		items:         items,
		questionInput: questionInput,
		spanInput:     spanInput,
		width:         80,
		height:        24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Done reports whether the walk has run out of items.
func (v *View) Done() bool {
	return v.index >= len(v.items)
}

// Current returns the item being annotated.
func (v *View) Current() (driving.WorkItem, bool) {
	if v.Done() {
		return driving.WorkItem{}, false
	}
	return v.items[v.index], true
}

// Update handles messages for the annotation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return v, v.handleEnter()
		case "esc":
			// End early and save what has been collected.
			return v, finished(true)
		}
	}

	var cmd tea.Cmd
	if v.mode == modeQuestion {
		v.questionInput, cmd = v.questionInput.Update(msg)
	} else {
		v.spanInput, cmd = v.spanInput.Update(msg)
	}
	return v, cmd
}

// handleEnter advances the per-pair state machine.
func (v *View) handleEnter() tea.Cmd {
	item, ok := v.Current()
	if !ok {
		return finished(false)
	}

	if v.mode == modeQuestion {
		question := strings.TrimSpace(v.questionInput.Value())
		switch {
		case question == "":
			v.session.Skip(item)
			return v.advance(messages.ItemSkipped{OriginalID: item.QA.ID})
		case strings.EqualFold(question, "exit"):
			return finished(true)
		}

		// Reject duplicates before asking for spans.
		if err := v.session.CheckQuestion(item, question); err != nil {
			if errors.Is(err, domain.ErrDuplicateQuestion) {
				v.setNotice("This question exists in the dataset! Please try again.", true)
			} else {
				v.setNotice(err.Error(), true)
			}
			return nil
		}

		v.question = question
		v.mode = modeSpans
		v.spans = nil
		v.spanInput.SetValue("")
		v.spanInput.Focus()
		v.questionInput.Blur()
		v.setNotice("", false)
		return nil
	}

	span := v.spanInput.Value()
	if span != "" {
		if _, err := v.session.LocateSpan(item, span); err != nil {
			v.setNotice("Could not find answer span in the context! Please try again.", true)
			return nil
		}
		v.spans = append(v.spans, span)
		v.spanInput.SetValue("")
		v.setNotice(fmt.Sprintf("%d span(s) recorded", len(v.spans)), false)
		return nil
	}

	// Empty span line ends span entry for this pair.
	if len(v.spans) == 0 {
		v.session.Skip(item)
		v.setNotice("No answer spans entered; pair skipped.", true)
		return v.advance(messages.ItemSkipped{OriginalID: item.QA.ID})
	}

	qa, err := v.session.Submit(item, v.question, v.spans)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateQuestion) {
			v.setNotice("This question exists in the dataset! Please try again.", true)
			v.backToQuestion()
			return nil
		}
		v.setNotice(err.Error(), true)
		v.backToQuestion()
		return nil
	}
	return v.advance(messages.PerturbationCommitted{ID: qa.ID, OriginalID: qa.OriginalID})
}

// advance moves to the next work item and resets the prompts.
func (v *View) advance(note tea.Msg) tea.Cmd {
	v.index++
	v.backToQuestion()
	v.questionInput.SetValue("")

	if v.Done() {
		return tea.Batch(emit(note), finished(false))
	}
	return emit(note)
}

// backToQuestion resets the state machine to the question prompt.
func (v *View) backToQuestion() {
	v.mode = modeQuestion
	v.spans = nil
	v.spanInput.SetValue("")
	v.spanInput.Blur()
	v.questionInput.Focus()
}

func (v *View) setNotice(text string, isErr bool) {
	v.notice = text
	v.noticeErr = isErr
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// View renders the annotation view.
func (v *View) View() string {
	item, ok := v.Current()
	if !ok {
		return v.styles.Muted.Render("Saving session...")
	}

	var b strings.Builder
	stats := v.session.Stats()

	b.WriteString(v.styles.Title.Render("perturb - contrast set annotation"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"pair %d/%d  ·  %d perturbed  ·  %d skipped",
		v.index+1, len(v.items), stats.Perturbed, stats.Skipped)))
	b.WriteString("\n\n")

	if item.Title != "" {
		b.WriteString(v.styles.Subtitle.Render(item.Title))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Context.Width(v.contentWidth()).Render(item.Context))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Normal.Render("Question: " + item.QA.Question))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render("Answers:  " + strings.Join(item.QA.AnswerTexts(), "; ")))
	b.WriteString("\n\n")

	if v.mode == modeQuestion {
		b.WriteString(v.styles.Subtitle.Render("New question"))
		b.WriteString("\n")
		b.WriteString(v.styles.InputField.Width(v.contentWidth()).Render(v.questionInput.View()))
	} else {
		b.WriteString(v.styles.Subtitle.Render("Answer spans for: " + v.question))
		b.WriteString("\n")
		if len(v.spans) > 0 {
			b.WriteString(v.styles.Success.Render("  " + strings.Join(v.spans, " | ")))
			b.WriteString("\n")
		}
		b.WriteString(v.styles.InputField.Width(v.contentWidth()).Render(v.spanInput.View()))
	}
	b.WriteString("\n")

	if v.notice != "" {
		style := v.styles.Muted
		if v.noticeErr {
			style = v.styles.Error
		}
		b.WriteString(style.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"enter confirm · empty question skips pair · esc end session and save · ctrl+c abort"))
	return b.String()
}

// contentWidth bounds rendered blocks to the terminal width.
func (v *View) contentWidth() int {
	if v.width > 4 {
		return v.width - 4
	}
	return 76
}

// emit wraps a message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// finished signals the end of the walk.
func finished(early bool) tea.Cmd {
	return func() tea.Msg { return messages.WalkFinished{Early: early} }
}
