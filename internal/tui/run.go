package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the guided brewing screen until the user quits and returns the
// final model. The session is closed when Run returns.
func Run(ctx context.Context, m Model) (Model, error) {
	defer m.session.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("run tui: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("run tui: unexpected model %T", final)
	}
	return fm, nil
}
