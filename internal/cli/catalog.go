package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/catalog"
	"github.com/idilsaglam/breachtrack/internal/model"
)

func newCatalogCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the tracked domain catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.printer(cmd)
			t := p.Theme()
			c := a.ctl.Catalog()
			counts := c.Counts()

			source := "built-in, updated " + catalog.LastUpdated[:10]
			if path := a.cfg.Catalog.Path; path != "" {
				source = path
			}
			lines := []string{p.Bold("Catalog") + "  " + p.C(t.Muted, source), ""}
			for _, cat := range model.Categories {
				lines = append(lines, fmt.Sprintf("%s %3d",
					p.C(t.CategoryColor(cat), fmt.Sprintf("%-9s", cat.Title())), counts[cat]))
			}
			lines = append(lines, fmt.Sprintf("%-9s %3d", "Total", c.Len()))
			p.Panel(lines)
			return nil
		},
	}
	cmd.AddCommand(newCatalogDumpCmd(a))
	return cmd
}

func newCatalogDumpCmd(a *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the active catalog as YAML, ready for --catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := catalog.Marshal(a.ctl.Catalog())
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(output, b, 0o644); err != nil {
				return fmt.Errorf("catalog dump: %w", err)
			}
			a.printer(cmd).OK("wrote " + output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
