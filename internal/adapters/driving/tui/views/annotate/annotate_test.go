package annotate

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/messages"
	"github.com/contrastlabs/perturb-cli/internal/adapters/driving/tui/styles"
	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driving"
)

// MockSession implements driving.Session for testing.
type MockSession struct {
	ItemsFunc         func() []driving.WorkItem
	CheckQuestionFunc func(item driving.WorkItem, question string) error
	LocateSpanFunc    func(item driving.WorkItem, span string) (domain.Answer, error)
	SubmitFunc        func(item driving.WorkItem, question string, spans []string) (domain.QAPair, error)
	SkipFunc          func(item driving.WorkItem)
	StatsFunc         func() driving.SessionStats
	FinishFunc        func(ctx context.Context, outputDir string) (string, error)
}

func (m *MockSession) Items() []driving.WorkItem {
	if m.ItemsFunc != nil {
		return m.ItemsFunc()
	}
	return nil
}

func (m *MockSession) CheckQuestion(item driving.WorkItem, question string) error {
	if m.CheckQuestionFunc != nil {
		return m.CheckQuestionFunc(item, question)
	}
	return nil
}

func (m *MockSession) LocateSpan(item driving.WorkItem, span string) (domain.Answer, error) {
	if m.LocateSpanFunc != nil {
		return m.LocateSpanFunc(item, span)
	}
	return domain.Answer{Text: span}, nil
}

func (m *MockSession) Submit(item driving.WorkItem, question string, spans []string) (domain.QAPair, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(item, question, spans)
	}
	return domain.QAPair{Question: question}, nil
}

func (m *MockSession) Skip(item driving.WorkItem) {
	if m.SkipFunc != nil {
		m.SkipFunc(item)
	}
}

func (m *MockSession) Stats() driving.SessionStats {
	if m.StatsFunc != nil {
		return m.StatsFunc()
	}
	return driving.SessionStats{}
}

func (m *MockSession) Seed() int64 { return 1 }

func (m *MockSession) Finish(ctx context.Context, outputDir string) (string, error) {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, outputDir)
	}
	return "", nil
}

func testItems() []driving.WorkItem {
	return []driving.WorkItem{
		{
			Article:   0,
			Paragraph: 0,
			Title:     "Paris",
			Context:   "Paris is the capital of France.",
			QA: domain.QAPair{
				ID:       "abc",
				Question: "What is the capital of France?",
				Answers:  []domain.Answer{{Text: "Paris", AnswerStart: 0}},
			},
		},
		{
			Article:   0,
			Paragraph: 0,
			Title:     "Paris",
			Context:   "Paris is the capital of France.",
			QA: domain.QAPair{
				ID:       "def",
				Question: "Which country is Paris in?",
				Answers:  []domain.Answer{{Text: "France", AnswerStart: 24}},
			},
		},
	}
}

func sessionWithItems(items []driving.WorkItem) *MockSession {
	return &MockSession{
		ItemsFunc: func() []driving.WorkItem { return items },
	}
}

// collect runs a command and flattens any batched messages.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, sessionWithItems(testItems()))

	require.NotNil(t, view)
	assert.False(t, view.Done())

	item, ok := view.Current()
	require.True(t, ok)
	assert.Equal(t, "abc", item.QA.ID)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, sessionWithItems(nil))

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.True(t, view.Done())
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))

	// Blink command from the question input.
	assert.NotNil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))

	view, _ = view.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, view.width)
	assert.Equal(t, 40, view.height)
	assert.True(t, view.ready)
}

func TestView_EmptyQuestionSkipsPair(t *testing.T) {
	var skipped []string
	session := sessionWithItems(testItems())
	session.SkipFunc = func(item driving.WorkItem) {
		skipped = append(skipped, item.QA.ID)
	}
	view := NewView(nil, session)

	view, cmd := view.Update(enterKey())

	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.ItemSkipped{OriginalID: "abc"}, msgs[0])
	assert.Equal(t, []string{"abc"}, skipped)

	item, ok := view.Current()
	require.True(t, ok)
	assert.Equal(t, "def", item.QA.ID)
}

func TestView_ExitEndsWalkEarly(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))
	view.questionInput.SetValue("exit")

	_, cmd := view.Update(enterKey())

	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.WalkFinished{Early: true}, msgs[0])
}

func TestView_EscEndsWalkEarly(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.WalkFinished{Early: true}, msgs[0])
}

func TestView_QuestionMovesToSpanEntry(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))
	view.questionInput.SetValue("  What city leads France?  ")

	view, cmd := view.Update(enterKey())

	assert.Nil(t, cmd)
	assert.Equal(t, modeSpans, view.mode)
	assert.Equal(t, "What city leads France?", view.question)
	assert.Empty(t, view.spans)
}

func TestView_SpanEntryAndSubmit(t *testing.T) {
	var gotQuestion string
	var gotSpans []string
	session := sessionWithItems(testItems())
	session.SubmitFunc = func(item driving.WorkItem, question string, spans []string) (domain.QAPair, error) {
		gotQuestion = question
		gotSpans = spans
		return domain.QAPair{ID: "new", OriginalID: item.QA.ID, Question: question}, nil
	}
	view := NewView(nil, session)

	view.questionInput.SetValue("What city leads France?")
	view, _ = view.Update(enterKey())

	view.spanInput.SetValue("Paris")
	view, cmd := view.Update(enterKey())
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"Paris"}, view.spans)

	// Empty span line commits the pair.
	view, cmd = view.Update(enterKey())
	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.PerturbationCommitted{ID: "new", OriginalID: "abc"}, msgs[0])
	assert.Equal(t, "What city leads France?", gotQuestion)
	assert.Equal(t, []string{"Paris"}, gotSpans)
	assert.Equal(t, modeQuestion, view.mode)
}

func TestView_InvalidSpanKeepsPrompt(t *testing.T) {
	session := sessionWithItems(testItems())
	session.LocateSpanFunc = func(item driving.WorkItem, span string) (domain.Answer, error) {
		return domain.Answer{}, domain.ErrSpanNotFound
	}
	view := NewView(nil, session)

	view.questionInput.SetValue("What city leads France?")
	view, _ = view.Update(enterKey())

	view.spanInput.SetValue("London")
	view, cmd := view.Update(enterKey())

	assert.Nil(t, cmd)
	assert.Empty(t, view.spans)
	assert.True(t, view.noticeErr)
	assert.Contains(t, view.notice, "Could not find answer span")
	assert.Equal(t, modeSpans, view.mode)
}

func TestView_NoSpansSkipsPair(t *testing.T) {
	var skips int
	session := sessionWithItems(testItems())
	session.SkipFunc = func(driving.WorkItem) { skips++ }
	view := NewView(nil, session)

	view.questionInput.SetValue("What city leads France?")
	view, _ = view.Update(enterKey())

	// Immediate empty span line: nothing to commit.
	view, cmd := view.Update(enterKey())

	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.ItemSkipped{OriginalID: "abc"}, msgs[0])
	assert.Equal(t, 1, skips)
}

func TestView_DuplicateQuestionRejectedBeforeSpans(t *testing.T) {
	session := sessionWithItems(testItems())
	session.CheckQuestionFunc = func(_ driving.WorkItem, question string) error {
		return domain.ErrDuplicateQuestion
	}
	view := NewView(nil, session)

	view.questionInput.SetValue("What is the capital of France?")
	view, cmd := view.Update(enterKey())

	// Span entry is never reached.
	assert.Nil(t, cmd)
	assert.Equal(t, modeQuestion, view.mode)
	assert.True(t, view.noticeErr)
	assert.Contains(t, view.notice, "question exists")
}

func TestView_DuplicateQuestionReprompts(t *testing.T) {
	session := sessionWithItems(testItems())
	session.SubmitFunc = func(driving.WorkItem, string, []string) (domain.QAPair, error) {
		return domain.QAPair{}, domain.ErrDuplicateQuestion
	}
	view := NewView(nil, session)

	view.questionInput.SetValue("What is the capital of France?")
	view, _ = view.Update(enterKey())
	view.spanInput.SetValue("Paris")
	view, _ = view.Update(enterKey())
	view, cmd := view.Update(enterKey())

	assert.Nil(t, cmd)
	assert.Equal(t, modeQuestion, view.mode)
	assert.True(t, view.noticeErr)
	assert.Contains(t, view.notice, "question exists")
	assert.False(t, view.Done())
}

func TestView_LastPairFinishesWalk(t *testing.T) {
	items := testItems()[:1]
	view := NewView(nil, sessionWithItems(items))

	view, cmd := view.Update(enterKey())

	msgs := collect(t, cmd)
	require.Len(t, msgs, 2)
	assert.Equal(t, messages.ItemSkipped{OriginalID: "abc"}, msgs[0])
	assert.Equal(t, messages.WalkFinished{Early: false}, msgs[1])
	assert.True(t, view.Done())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, sessionWithItems(testItems()))
	view.SetDimensions(100, 30)

	out := view.View()

	assert.Contains(t, out, "Paris is the capital of France.")
	assert.Contains(t, out, "What is the capital of France?")
	assert.Contains(t, out, "pair 1/2")
}

func TestView_View_Done(t *testing.T) {
	view := NewView(nil, sessionWithItems(nil))

	assert.True(t, strings.Contains(view.View(), "Saving"))
}
