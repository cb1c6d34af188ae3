package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/ui"
)

// styles are the lipgloss styles for one theme. Rebuilt on theme toggle.
type styles struct {
	theme ui.Theme

	title    lipgloss.Style
	success  lipgloss.Style
	pending  lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	errorS   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	help     lipgloss.Style
	note     lipgloss.Style
	panel    lipgloss.Style
	input    lipgloss.Style
	category map[model.Category]lipgloss.Style
}

func newStyles(t model.Theme) *styles {
	th := ui.ThemeFor(t)
	s := &styles{
		theme:    th,
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Title)),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success)),
		pending:  lipgloss.NewStyle().Foreground(lipgloss.Color(th.Pending)),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent)),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(th.Muted)),
		errorS:   lipgloss.NewStyle().Foreground(lipgloss.Color(th.Error)).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Accent)),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color(th.Muted)),
		note:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(th.Muted)),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(th.Muted)).
			Padding(0, 1),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(th.Accent)).
			Padding(0, 1),
		category: make(map[model.Category]lipgloss.Style, len(model.Categories)),
	}
	for _, c := range model.Categories {
		s.category[c] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.CategoryColor(c)))
	}
	return s
}

// bar renders a progress bar for percent (0-100) in color.
func (s *styles) bar(percent, width int, color string) string {
	if width < 4 {
		width = 4
	}
	opts := []progress.Option{progress.WithWidth(width), progress.WithoutPercentage()}
	if color == "" {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithSolidFill(color))
	}
	return progress.New(opts...).ViewAs(float64(percent) / 100)
}
