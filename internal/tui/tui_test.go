package tui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/event"
)

func testRecipe() domain.Recipe {
	return domain.Recipe{
		ID:   "v60",
		Name: "V60 Pour Over",
		Steps: []domain.Step{
			{ID: 1, Title: "Prepare", Instruction: "Rinse the filter.", Duration: 30},
			{ID: 2, Title: "Bloom", Instruction: "Pour 50 ml.", Duration: 30, WaterML: 50, TemperatureC: 92, Tips: "Stir gently."},
			{ID: 3, Title: "Pour", Instruction: "Pour to 250 ml.", Duration: 60, WaterML: 200},
		},
		Parameters: domain.Parameters{WaterML: 250, BrewSeconds: 120},
	}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	r := testRecipe()
	if opts.Events == nil {
		opts.Events = NewEventLog(nil)
	}
	sess, err := brewing.New(r.Steps, brewing.MetaFor(r, ""), brewing.WithHandler(opts.Events.Handle))
	require.NoError(t, err)

	m := NewModel(sess, r, opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, c := m.Update(msg)
		m = updated.(Model)
		cmd = c
	}
	return m, cmd
}

func tick(t *testing.T, m Model, tag int) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(TickMsg{Tag: tag})
	return updated.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Equal(t, time.Second, m.opts.Interval)
	assert.Equal(t, brewing.StateIdle, m.session.State())
	assert.NotNil(t, m.Init())
	assert.True(t, m.ready)
}

func TestStartArmsOneTickChain(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})

	m, cmd := press(t, m, "s")
	require.NotNil(t, cmd, "start arms a tick chain")
	assert.Equal(t, brewing.StateRunning, m.session.State())
	tag := m.session.Tag()
	assert.Equal(t, tag, m.armed)

	msg := cmd()
	require.IsType(t, TickMsg{}, msg)
	assert.Equal(t, tag, msg.(TickMsg).Tag)

	m, cmd = press(t, m, "enter")
	assert.Nil(t, cmd, "double start does not arm a second chain")
	assert.Equal(t, tag, m.session.Tag())
}

func TestTicksAdvanceElapsedAndRearm(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	tag := m.session.Tag()

	for range 3 {
		var cmd tea.Cmd
		m, cmd = tick(t, m, tag)
		require.NotNil(t, cmd)
	}
	assert.Equal(t, 3, m.session.Elapsed())
	assert.Contains(t, m.View(), "00:03")
}

func TestPauseStopsChainAndResumeStartsNewOne(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	oldTag := m.session.Tag()
	m, _ = tick(t, m, oldTag)

	m, cmd := press(t, m, "p")
	assert.Nil(t, cmd)
	assert.Equal(t, brewing.StatePaused, m.session.State())

	m, cmd = tick(t, m, oldTag)
	assert.Nil(t, cmd, "a tick in flight at pause time ends the chain")
	assert.Equal(t, 1, m.session.Elapsed())

	m, cmd = press(t, m, "space")
	require.NotNil(t, cmd)
	assert.Equal(t, brewing.StateRunning, m.session.State())
	newTag := m.session.Tag()
	assert.NotEqual(t, oldTag, newTag)

	m, cmd = tick(t, m, oldTag)
	assert.Nil(t, cmd, "stale chain stays dead after resume")
	m, cmd = tick(t, m, newTag)
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, m.session.Elapsed())
}

func TestStepNavigation(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = press(t, m, "n")
	assert.Equal(t, 0, m.session.CurrentIndex(), "next is ignored while idle")

	m, _ = press(t, m, "s", "n", "right")
	assert.Equal(t, 2, m.session.CurrentIndex())

	m, _ = press(t, m, "b", "left", "left")
	assert.Equal(t, 0, m.session.CurrentIndex(), "back stops at the first step")
	assert.Equal(t, []bool{true, true, false}, m.session.CompletedFlags())
}

func TestAdvancePastLastStepCompletes(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	tag := m.session.Tag()
	m, _ = tick(t, m, tag)

	m, cmd := press(t, m, "n", "n", "n")
	assert.Nil(t, cmd)
	assert.Equal(t, brewing.StateCompleted, m.session.State())

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 2, res.StepsCompletedCount)
	assert.Equal(t, 1, res.ActualElapsedSeconds)

	_, cmd = tick(t, m, tag)
	assert.Nil(t, cmd, "completion ends the tick chain")

	view := m.View()
	assert.Contains(t, view, "Brewing complete!")
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "target 02:00")
}

func TestFinishEarly(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = press(t, m, "s", "n", "f")
	assert.Equal(t, brewing.StateCompleted, m.session.State())

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 1, res.StepsCompletedCount)

	m, _ = press(t, m, "f")
	assert.Equal(t, brewing.StateCompleted, m.session.State())
}

func TestQuitWhenIdle(t *testing.T) {
	m := newTestModel(t, Options{ConfirmExit: true})
	m, cmd := press(t, m, "q")
	assert.True(t, isQuit(cmd))
	assert.Empty(t, m.View())

	assert.ErrorIs(t, m.session.Start(), brewing.ErrInvalidTransition, "quitting closes the session")
}

func TestQuitConfirmation(t *testing.T) {
	m := newTestModel(t, Options{ConfirmExit: true, Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	tag := m.session.Tag()

	m, cmd := press(t, m, "q")
	assert.False(t, isQuit(cmd))
	assert.True(t, m.confirming)
	assert.Contains(t, m.View(), "Quit anyway?")

	m, cmd = press(t, m, "n")
	assert.False(t, isQuit(cmd))
	assert.False(t, m.confirming)
	assert.Equal(t, 0, m.session.CurrentIndex(), "the cancelling key is not treated as next")

	m, _ = press(t, m, "ctrl+c")
	require.True(t, m.confirming)
	m, cmd = press(t, m, "y")
	assert.True(t, isQuit(cmd))

	_, cmd = tick(t, m, tag)
	assert.Nil(t, cmd, "closing invalidates outstanding ticks")
}

func TestQuitWithoutConfirmation(t *testing.T) {
	m := newTestModel(t, Options{ConfirmExit: false})
	m, _ = press(t, m, "s")
	_, cmd := press(t, m, "q")
	assert.True(t, isQuit(cmd))
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Contains(t, m.View(), "start")
	assert.NotContains(t, m.View(), "finish early")

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "finish early")
}

func TestViewShowsCurrentStep(t *testing.T) {
	m := newTestModel(t, Options{})
	view := m.View()
	assert.Contains(t, view, "V60 Pour Over")
	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "Rinse the filter.")
	assert.Contains(t, view, "Next: Bloom (00:30 · 50 ml · 92 °C)")
	assert.Contains(t, view, "Press s to start brewing.")

	m, _ = press(t, m, "s", "n")
	view = m.View()
	assert.Contains(t, view, "Pour 50 ml.")
	assert.Contains(t, view, "50 ml")
	assert.Contains(t, view, "92 °C")
	assert.Contains(t, view, "Stir gently.")
	assert.Contains(t, view, "Step 2/3: Bloom")
	assert.Contains(t, view, "step 2/3")
}

func TestHideTips(t *testing.T) {
	m := newTestModel(t, Options{HideTips: true})
	m, _ = press(t, m, "s", "n")
	assert.NotContains(t, m.View(), "Stir gently.")
}

func TestStepClockResetsOnStepChange(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	tag := m.session.Tag()
	for range 40 {
		m, _ = tick(t, m, tag)
	}
	assert.Contains(t, m.View(), "00:40 / 00:30")

	m, _ = press(t, m, "n")
	m, _ = tick(t, m, tag)
	assert.Contains(t, m.View(), "00:01 / 00:30")
}

func TestRejectedEventsHiddenFromLog(t *testing.T) {
	var forwarded []event.Event
	log := NewEventLog(func(e event.Event) { forwarded = append(forwarded, e) })
	m := newTestModel(t, Options{Events: log})

	m, _ = press(t, m, "s", "s")
	require.Len(t, forwarded, 2)
	assert.Equal(t, event.KindRejected, forwarded[1].Kind)

	rendered := m.renderEvents()
	assert.Contains(t, rendered, "Brewing started")
	assert.NotContains(t, rendered, "invalid transition")
}

func TestEventLogBounded(t *testing.T) {
	log := NewEventLog(nil)
	for i := range maxEvents + 10 {
		log.Handle(event.Note(strings.Repeat("x", i%3)))
	}
	assert.Len(t, log.Events(), maxEvents)

	var nilLog *EventLog
	assert.Nil(t, nilLog.Events())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "", wrapText("", 10, "", 0))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8, "", 0))
	assert.Equal(t, "one two\n  three", wrapText("one two three", 8, "  ", 0))
	assert.Equal(t, "one ...", wrapText("one two three", 7, "", 1))
	assert.Equal(t, "anything", wrapText("anything", 0, "", 0))
}

func TestWrapText_MultiByte(t *testing.T) {
	got := wrapText("Pour at 92°C now please", 12, "", 1)
	assert.Equal(t, "Pour at 9...", got)
	assert.True(t, utf8.ValidString(got))

	got = wrapText("Bloom ☕☕☕ gently", 12, "", 1)
	assert.Equal(t, "Bloom ...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "Heat 96°C\nthen pour", wrapText("Heat 96°C then pour", 9, "", 0))
}

func TestStepTargetNoteLogged(t *testing.T) {
	m := newTestModel(t, Options{Interval: time.Millisecond})
	m, _ = press(t, m, "s")
	tag := m.session.Tag()

	for range 29 {
		m, _ = tick(t, m, tag)
	}
	assert.NotContains(t, m.View(), "target time")

	m, cmd := tick(t, m, tag)
	assert.NotNil(t, cmd, "the chain continues past the target")

	notes := 0
	for _, e := range m.opts.Events.Events() {
		if e.Kind == event.KindNote {
			notes++
			assert.Equal(t, "⏱ Prepare: target time 00:30 reached", e.Text)
		}
	}
	assert.Equal(t, 1, notes)
	assert.Contains(t, m.View(), "Prepare: target time 00:30 reached")

	m, _ = tick(t, m, tag)
	assert.Len(t, m.opts.Events.Events(), 2, "started plus one note")
}
