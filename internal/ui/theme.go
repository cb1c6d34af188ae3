package ui

import (
	"github.com/muesli/termenv"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// Theme bundles palette, symbols and box borders. Colors are hex or ANSI
// strings so the TUI can hand the same values to lipgloss.
type Theme struct {
	Name model.Theme

	Title, Muted, Accent, Success, Error, Pending string
	Critical, High, Medium, Low                   string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string
}

// ThemeFor returns the palette for t. Unknown values get the dark palette.
func ThemeFor(t model.Theme) Theme {
	if t == model.ThemeLight {
		return Theme{
			Name:  model.ThemeLight,
			Title: "#1f2328", Muted: "#6e7781", Accent: "#0969da",
			Success: "#1a7f37", Error: "#cf222e", Pending: "#9a6700",
			Critical: "#cf222e", High: "#bc4c00", Medium: "#9a6700", Low: "#1a7f37",
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
		}
	}
	return Theme{
		Name:  model.ThemeDark,
		Title: "#e6edf3", Muted: "#7d8590", Accent: "#58a6ff",
		Success: "#3fb950", Error: "#f85149", Pending: "#d29922",
		Critical: "#ff6b6b", High: "#ffa657", Medium: "#e3b341", Low: "#7ee787",
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	}
}

// Mono is used with --no-color: plain ASCII glyphs, no palette.
func Mono(name model.Theme) Theme {
	return Theme{
		Name:         name,
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		SymDone: "x", SymUnchecked: "-",
	}
}

// CategoryColor is the risk-level color for c.
func (t Theme) CategoryColor(c model.Category) string {
	switch c {
	case model.Critical:
		return t.Critical
	case model.High:
		return t.High
	case model.Medium:
		return t.Medium
	case model.Low:
		return t.Low
	}
	return t.Muted
}

// DetectTheme guesses a theme from the terminal background.
func DetectTheme(o *termenv.Output) model.Theme {
	if o != nil && !o.HasDarkBackground() {
		return model.ThemeLight
	}
	return model.ThemeDark
}
