package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/debug"
)

func createRendererCmd(width int) tea.Cmd {
	return func() tea.Msg {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-8, 30)),
		)
		if err != nil {
			debug.Logf("tui: failed to create glamour renderer: %v", err)
		}
		return rendererReadyMsg{renderer: renderer}
	}
}

func tickCmd(interval time.Duration, tag int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TickMsg{Tag: tag}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if !m.session.Tick(msg.Tag) {
			debug.Logf("tui: dropped tick tag=%d (live=%d, %s)", msg.Tag, m.session.Tag(), m.session.State())
			return m, nil
		}
		if m.session.TargetReached(m.stepStart) && m.opts.Events != nil {
			m.opts.Events.Handle(brewing.TargetNote(m.session.CurrentStep()))
			m.refreshLog()
		}
		return m, tickCmd(m.opts.Interval, msg.Tag)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(m.width-24, 10)
		m.help.Width = m.width

		logWidth := max(m.width-4, 20)
		logHeight := max(m.height-m.fixedHeight(), 3)
		if !m.ready {
			m.logViewport = viewport.New(logWidth, logHeight)
			m.ready = true
			cmds = append(cmds, createRendererCmd(m.width))
		} else {
			m.logViewport.Width = logWidth
			m.logViewport.Height = logHeight
		}
		m.refreshLog()

	case rendererReadyMsg:
		m.renderer = msg.renderer

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" || msg.String() == "Y" {
			return m.quit()
		}
		return m, nil
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.opts.ConfirmExit && m.session.State().Active() {
			m.confirming = true
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Start):
		err = m.session.Start()

	case key.Matches(msg, m.keys.Pause):
		err = m.session.TogglePause()

	case key.Matches(msg, m.keys.Next):
		err = m.session.Advance()

	case key.Matches(msg, m.keys.Back):
		err = m.session.Retreat()

	case key.Matches(msg, m.keys.End):
		err = m.session.Complete()

	case msg.String() == "up" || msg.String() == "down" || msg.String() == "pgup" || msg.String() == "pgdown":
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	default:
		return m, nil
	}

	if err != nil {
		debug.Logf("tui: %s ignored: %v", msg.String(), err)
	}
	m.trackStep()
	m.refreshLog()
	return m, m.syncTicks()
}

// syncTicks starts a tick chain when the session was (re)armed with a tag
// no chain carries yet.
func (m *Model) syncTicks() tea.Cmd {
	if m.session.State() != brewing.StateRunning || m.session.Tag() == m.armed {
		return nil
	}
	m.armed = m.session.Tag()
	return tickCmd(m.opts.Interval, m.armed)
}

func (m *Model) trackStep() {
	if idx := m.session.CurrentIndex(); idx != m.stepIndex {
		m.stepIndex = idx
		m.stepStart = m.session.Elapsed()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Close()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.renderEvents())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}
