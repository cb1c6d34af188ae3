package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/view"
)

// headerItem is a category row. Selecting it and pressing space or c folds
// the section.
type headerItem struct {
	category  model.Category
	stats     view.CategoryStats
	visible   int
	collapsed bool
}

func (h headerItem) FilterValue() string { return "" }

// domainItem adapts a DisplayItem to bubbles/list.
type domainItem struct {
	view.DisplayItem
}

func (d domainItem) FilterValue() string { return d.ID }

// key identifies a row across rebuilds so the cursor can stay put.
func rowKey(it list.Item) string {
	switch it := it.(type) {
	case headerItem:
		return "#" + string(it.category)
	case domainItem:
		return it.ID
	}
	return ""
}

// itemDelegate renders single-line rows.
type itemDelegate struct {
	st *styles
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	switch it := item.(type) {
	case headerItem:
		fmt.Fprintln(w, prefix+d.header(it))
	case domainItem:
		fmt.Fprintln(w, prefix+"  "+d.domain(it, m.Width()-6))
	}
}

func (d itemDelegate) header(h headerItem) string {
	fold := "▾"
	if h.collapsed {
		fold = "▸"
	}
	name := d.st.category[h.category].Render(fmt.Sprintf("%s %-8s", fold, h.category.Title()))
	counts := d.st.muted.Render(fmt.Sprintf("%3d/%-3d", h.stats.Checked, h.stats.Total))
	bar := d.st.bar(h.stats.Percent, 16, d.st.theme.CategoryColor(h.category))
	line := fmt.Sprintf("%s %s %s %3d%%", name, counts, bar, h.stats.Percent)
	if h.collapsed {
		line += d.st.muted.Render(fmt.Sprintf("  (%d hidden)", h.visible))
	}
	return line
}

func (d itemDelegate) domain(it domainItem, width int) string {
	box := d.st.muted.Render(d.st.theme.BoxUnchecked)
	text := it.ID
	if it.Checked {
		box = d.st.success.Render(d.st.theme.BoxChecked)
		text = d.st.done.Render(text)
	}
	line := box + " " + text
	if it.Note != "" {
		note := strings.ReplaceAll(it.Note, "\n", " ")
		room := width - len(it.ID) - 6
		if r := []rune(note); room > 3 && len(r) > room {
			note = string(r[:room-1]) + "…"
		}
		if room > 3 {
			line += "  " + d.st.note.Render("✎ "+note)
		}
	}
	return line
}
