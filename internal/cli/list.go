package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/ui"
	"github.com/idilsaglam/breachtrack/internal/view"
)

func newListCmd(a *App) *cobra.Command {
	var filter, search string
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tracked domains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return errUsage("%v", err)
			}
			// Session-only; nothing here is persisted.
			_ = a.ctl.Dispatch(app.SetFilter{Filter: f})
			_ = a.ctl.Dispatch(app.SetSearch{Text: search})
			items, stats := a.ctl.Projection()

			p := a.printer(cmd)
			lines := []string{headerLine(p, stats)}
			lines = append(lines, p.C(p.Theme().Muted, ui.ProgressBar(stats.Checked, stats.Total, 28)))
			lines = append(lines, "")
			if group {
				lines = append(lines, groupLines(p, items, stats)...)
			} else {
				lines = append(lines, flatLines(p, items)...)
			}
			lines = append(lines, "")
			lines = append(lines, p.C(p.Theme().Muted, "Tip: mark one done with `breachtrack check <domain>`"))
			p.Panel(lines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Risk level to show (all|critical|high|medium|low)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only domains containing this text")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "Group output by risk level")
	return cmd
}

func headerLine(p *ui.Printer, s view.Stats) string {
	t := p.Theme()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.Bold(p.C(t.Title, "Breach Tracker")),
		p.C(t.Success, t.SymDone), s.Checked,
		p.C(t.Pending, t.SymUnchecked), s.Total-s.Checked,
		p.C(t.Accent, "Total"), s.Total,
	)
}

func flatLines(p *ui.Printer, items []view.DisplayItem) []string {
	t := p.Theme()
	if len(items) == 0 {
		return []string{p.C(t.Muted, "no domains match")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, itemLine(p, i+1, it, true))
	}
	return out
}

func itemLine(p *ui.Printer, n int, it view.DisplayItem, withLevel bool) string {
	t := p.Theme()
	idx := fmt.Sprintf("%2d.", n)
	box, color := t.BoxUnchecked, t.Muted
	if it.Checked {
		box, color = t.BoxChecked, t.Success
	}
	line := fmt.Sprintf("%s %s %s", p.C(t.Muted, idx), p.C(color, box), it.ID)
	if withLevel {
		line += " " + p.C(t.CategoryColor(it.Category), "["+string(it.Category)+"]")
	}
	if it.Note != "" {
		note := it.Note
		if r := []rune(note); len(r) > 40 {
			note = string(r[:37]) + "..."
		}
		line += "  " + p.C(t.Muted, "✎ "+note)
	}
	return line
}

func groupLines(p *ui.Printer, items []view.DisplayItem, s view.Stats) []string {
	t := p.Theme()
	sections := view.Group(items)
	if len(sections) == 0 {
		return []string{p.C(t.Muted, "(none)")}
	}
	var lines []string
	for i, sec := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		cs := s.PerCategory[sec.Category]
		lines = append(lines, fmt.Sprintf("%s %s",
			p.C(t.CategoryColor(sec.Category), sec.Category.Title()),
			p.C(t.Muted, fmt.Sprintf("%d/%d", cs.Checked, cs.Total))))
		for j, it := range sec.Items {
			lines = append(lines, itemLine(p, j+1, it, false))
		}
	}
	return lines
}
