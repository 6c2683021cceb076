package recipe

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

// Markdown renders a recipe as a markdown document suitable for glamour.
func Markdown(r domain.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	b.WriteString("| | |\n|---|---|\n")
	if r.Equipment.Name != "" {
		fmt.Fprintf(&b, "| Equipment | %s |\n", r.Equipment.Name)
	}
	if r.Difficulty > 0 {
		fmt.Fprintf(&b, "| Difficulty | %s |\n", strings.Repeat("★", r.Difficulty))
	}
	p := r.Parameters
	if p.GrindSize != "" {
		fmt.Fprintf(&b, "| Grind | %s |\n", p.GrindSize)
	}
	if p.CoffeeGrams > 0 {
		fmt.Fprintf(&b, "| Coffee | %d g |\n", p.CoffeeGrams)
	}
	if p.WaterML > 0 {
		fmt.Fprintf(&b, "| Water | %d ml |\n", p.WaterML)
	}
	if p.WaterTempC > 0 {
		fmt.Fprintf(&b, "| Temperature | %d °C |\n", p.WaterTempC)
	}
	if ratio := r.Ratio(); ratio != "" {
		fmt.Fprintf(&b, "| Ratio | %s |\n", ratio)
	}
	if p.BrewSeconds > 0 {
		fmt.Fprintf(&b, "| Brew time | %s |\n", brewing.FormatElapsed(p.BrewSeconds))
	}

	b.WriteString("\n## Steps\n\n")
	for i, s := range r.Steps {
		fmt.Fprintf(&b, "%d. **%s**", i+1, s.Title)
		if targets := StepTargets(s); targets != "" {
			fmt.Fprintf(&b, " _(%s)_", targets)
		}
		fmt.Fprintf(&b, "\n   %s\n", s.Instruction)
		if s.Tips != "" {
			fmt.Fprintf(&b, "   > %s\n", s.Tips)
		}
	}
	return b.String()
}

// StepTargets summarizes a step's duration, water and temperature targets,
// e.g. "00:30 · 50 ml · 92 °C".
func StepTargets(s domain.Step) string {
	var parts []string
	if s.Duration > 0 {
		parts = append(parts, brewing.FormatElapsed(s.Duration))
	}
	if s.HasWater() {
		parts = append(parts, fmt.Sprintf("%d ml", s.WaterML))
	}
	if s.HasTemperature() {
		parts = append(parts, fmt.Sprintf("%d °C", s.TemperatureC))
	}
	return strings.Join(parts, " · ")
}

// Diff returns a unified diff between the YAML forms of two recipes. An
// empty string means they are identical.
func Diff(a, b domain.Recipe) (string, error) {
	left, err := yaml.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", a.ID, err)
	}
	right, err := yaml.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", b.ID, err)
	}
	return udiff.Unified(a.ID, b.ID, string(left), string(right)), nil
}
