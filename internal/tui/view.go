package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/event"
	"github.com/alexander-akhmetov/brewguide/internal/recipe"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")

	if m.session.State() == brewing.StateCompleted {
		b.WriteString(m.renderSummary())
	} else {
		b.WriteString(m.renderStepCard())
		b.WriteString("\n")
		b.WriteString(m.renderNext())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStepList())
	b.WriteString("\n")
	b.WriteString(logBoxStyle.Width(max(m.width-2, 20)).Render(m.logViewport.View()))
	b.WriteString("\n")

	if m.confirming {
		b.WriteString(confirmStyle.Render("Brewing in progress. Quit anyway? (y/N)"))
	} else {
		b.WriteString(m.help.View(stateKeys{keys: m.keys, state: m.session.State(), first: m.session.CurrentIndex() == 0}))
	}
	return b.String()
}

// fixedHeight is the number of rows used by everything but the log pane.
func (m Model) fixedHeight() int {
	return 17 + len(m.session.Steps())
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("☕ " + m.recipe.Name)
	right := valueStyle.Render(m.session.FormattedElapsed())
	state := m.stateIndicator()

	left := title + "  " + state
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if padding < 2 {
		padding = 2
	}
	return left + strings.Repeat(" ", padding) + right
}

func (m Model) stateIndicator() string {
	switch m.session.State() {
	case brewing.StateIdle:
		return idleStyle.Render("● Ready")
	case brewing.StateRunning:
		return runningStyle.Render(m.spinner.View() + " Brewing")
	case brewing.StatePaused:
		return pausedStyle.Render("⏸ PAUSED")
	case brewing.StateCompleted:
		return doneStyle.Render("✓ DONE")
	default:
		return ""
	}
}

func (m Model) renderProgress() string {
	label := labelStyle.Render(fmt.Sprintf(" step %d/%d", m.session.CurrentIndex()+1, len(m.session.Steps())))
	return m.bar.ViewAs(m.session.ProgressFraction()) + label
}

func (m Model) renderStepCard() string {
	step := m.session.CurrentStep()
	width := max(m.width-4, 20)

	var b strings.Builder
	b.WriteString(stepTitleStyle.Render(step.Title))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(wrapText(step.Instruction, width, "", 3)))
	b.WriteString("\n")

	var targets []string
	if step.HasWater() {
		targets = append(targets, fmt.Sprintf("💧 %d ml", step.WaterML))
	}
	if step.HasTemperature() {
		targets = append(targets, fmt.Sprintf("🌡 %d °C", step.TemperatureC))
	}
	if step.Duration > 0 {
		targets = append(targets, m.stepClock(step))
	}
	if len(targets) > 0 {
		b.WriteString(strings.Join(targets, "   "))
		b.WriteString("\n")
	}

	if step.Tips != "" && !m.opts.HideTips {
		b.WriteString(m.renderTip(step.Tips))
	}
	return cardStyle.Width(max(m.width-2, 20)).Render(strings.TrimRight(b.String(), "\n"))
}

// stepClock shows time spent in the current step against its target.
func (m Model) stepClock(step domain.Step) string {
	spent := 0
	if m.session.State() != brewing.StateIdle {
		spent = m.session.Elapsed() - m.stepStart
	}
	clock := fmt.Sprintf("⏱ %s / %s", brewing.FormatElapsed(spent), brewing.FormatElapsed(step.Duration))
	if spent > step.Duration {
		return overStyle.Render(clock)
	}
	return clock
}

func (m Model) renderTip(tip string) string {
	if m.renderer != nil {
		out, err := m.renderer.Render("> " + tip)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return tipStyle.Render("Tip: " + tip)
}

func (m Model) renderNext() string {
	next, ok := m.session.NextStep()
	if !ok {
		return labelStyle.Render("Last step. Press n to finish.")
	}
	hint := "Next: " + next.Title
	if targets := recipe.StepTargets(next); targets != "" {
		hint += " (" + targets + ")"
	}
	return labelStyle.Render(hint)
}

func (m Model) renderStepList() string {
	var b strings.Builder
	b.WriteString(sectionHeader("Steps", max(m.width-4, 20)))
	b.WriteString("\n")

	flags := m.session.CompletedFlags()
	current := m.session.CurrentIndex()
	done := m.session.State() == brewing.StateCompleted
	for i, step := range m.session.Steps() {
		marker := "  "
		style := labelStyle
		switch {
		case flags[i]:
			marker = "✓ "
			style = doneStyle
		case i == current && !done:
			marker = "▶ "
			style = stepTitleStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d. %s", marker, i+1, step.Title)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSummary() string {
	res, _ := m.session.Result()
	var b strings.Builder
	b.WriteString(doneStyle.Render("Brewing complete!"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Time: "))
	b.WriteString(valueStyle.Render(brewing.FormatElapsed(res.ActualElapsedSeconds)))
	if target := m.session.Meta().TargetBrewSeconds; target > 0 {
		b.WriteString(labelStyle.Render(" (target " + brewing.FormatElapsed(target) + ")"))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Steps completed: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d/%d", res.StepsCompletedCount, res.TotalSteps)))
	b.WriteString("\n")
	if water := m.session.Meta().TargetWaterML; water > 0 {
		b.WriteString(labelStyle.Render("Water: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d ml", water)))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Press q to save and exit."))
	return cardStyle.Width(max(m.width-2, 20)).Render(b.String())
}

// renderEvents formats the event log, skipping rejected operations.
func (m Model) renderEvents() string {
	var lines []string
	for _, e := range m.opts.Events.Events() {
		if e.Kind == event.KindRejected {
			continue
		}
		prefix := labelStyle.Render(brewing.FormatElapsed(e.Elapsed) + " ")
		text := e.Text
		switch e.Kind {
		case event.KindCompleted:
			text = doneStyle.Render(text)
		case event.KindPaused:
			text = pausedStyle.Render(text)
		case event.KindNote:
			prefix = labelStyle.Render("      ")
		}
		lines = append(lines, prefix+text)
	}
	if len(lines) == 0 {
		return labelStyle.Render("Press s to start brewing.")
	}
	return strings.Join(lines, "\n")
}
