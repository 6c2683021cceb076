// Package tui implements the guided brewing screen using bubbletea.
package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/event"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 500

// Options configures the guided brewing screen.
type Options struct {
	// Interval between ticks. Zero means one second.
	Interval time.Duration
	// ConfirmExit asks before quitting a session in progress.
	ConfirmExit bool
	// HideTips hides per-step tips.
	HideTips bool
	// Events is the log the session emits into. May be nil.
	Events *EventLog
}

// EventLog collects session events for display and forwards each one to
// an optional downstream handler such as the progress log file.
type EventLog struct {
	mu     sync.Mutex
	events []event.Event
	next   event.Handler
}

// NewEventLog returns an EventLog that forwards to next, if not nil.
func NewEventLog(next event.Handler) *EventLog {
	return &EventLog{next: next}
}

// Handle records e. It matches event.Handler.
func (l *EventLog) Handle(e event.Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	if len(l.events) > maxEvents {
		l.events = l.events[len(l.events)-maxEvents:]
	}
	l.mu.Unlock()

	if l.next != nil {
		l.next(e)
	}
}

// Events returns a copy of the recorded events.
func (l *EventLog) Events() []event.Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Event(nil), l.events...)
}

// TickMsg is delivered once per interval while a session runs. Tag is the
// session tag the tick chain was armed with.
type TickMsg struct {
	Tag int
}

type rendererReadyMsg struct {
	renderer *glamour.TermRenderer
}

type keyMap struct {
	Start key.Binding
	Pause key.Binding
	Next  key.Binding
	Back  key.Binding
	End   key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s/enter", "start")),
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space/p", "pause/resume")),
		Next:  key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next step")),
		Back:  key.NewBinding(key.WithKeys("b", "left"), key.WithHelp("b/←", "previous step")),
		End:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish early")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// stateKeys shows only the bindings that do something in the current state.
type stateKeys struct {
	keys  keyMap
	state brewing.State
	first bool
}

func (k stateKeys) ShortHelp() []key.Binding {
	switch k.state {
	case brewing.StateIdle:
		return []key.Binding{k.keys.Start, k.keys.Help, k.keys.Quit}
	case brewing.StateRunning, brewing.StatePaused:
		bindings := []key.Binding{k.keys.Pause, k.keys.Next}
		if !k.first {
			bindings = append(bindings, k.keys.Back)
		}
		return append(bindings, k.keys.End, k.keys.Help, k.keys.Quit)
	default:
		return []key.Binding{k.keys.Quit}
	}
}

func (k stateKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Start, k.keys.Pause, k.keys.End},
		{k.keys.Next, k.keys.Back},
		{k.keys.Help, k.keys.Quit},
	}
}

// Model is the bubbletea model for a guided brewing session.
type Model struct {
	session *brewing.Session
	recipe  domain.Recipe
	opts    Options

	// armed is the tag of the live tick chain, 0 when none was armed.
	armed int
	// stepStart is the elapsed time when the current step was entered.
	stepStart int
	stepIndex int

	confirming bool
	quitting   bool

	keys        keyMap
	help        help.Model
	bar         progress.Model
	spinner     spinner.Model
	logViewport viewport.Model
	renderer    *glamour.TermRenderer
	width       int
	height      int
	ready       bool
}

// NewModel creates the screen for session brewing recipe.
func NewModel(session *brewing.Session, recipe domain.Recipe, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))

	return Model{
		session:   session,
		recipe:    recipe,
		opts:      opts,
		stepIndex: session.CurrentIndex(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithGradient("#6f4e37", "#d2a679"), progress.WithoutPercentage()),
		spinner:   s,
	}
}

// Session returns the underlying session.
func (m Model) Session() *brewing.Session {
	return m.session
}

// Result returns the session result once it has completed.
func (m Model) Result() (brewing.Result, bool) {
	return m.session.Result()
}
