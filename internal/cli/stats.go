package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/ui"
)

func newStatsCmd(a *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show overall and per-risk-level progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stats := a.ctl.Projection()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			p := a.printer(cmd)
			t := p.Theme()
			lines := []string{
				headerLine(p, stats),
				fmt.Sprintf("%-9s %s", "Overall", ui.ProgressBar(stats.Checked, stats.Total, 24)),
				"",
			}
			for _, c := range model.Categories {
				cs := stats.PerCategory[c]
				lines = append(lines, fmt.Sprintf("%s %s %s",
					p.C(t.CategoryColor(c), fmt.Sprintf("%-9s", c.Title())),
					ui.ProgressBar(cs.Checked, cs.Total, 24),
					p.C(t.Muted, fmt.Sprintf("%d/%d", cs.Checked, cs.Total))))
			}
			p.Panel(lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print stats as JSON")
	return cmd
}
