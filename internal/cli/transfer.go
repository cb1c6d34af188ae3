package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/transfer"
	"github.com/idilsaglam/breachtrack/internal/view"
)

func newExportCmd(a *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "csv" {
				return errUsage("unknown export format %q (want json|csv)", format)
			}

			if output == "" {
				return a.export(cmd.OutOrStdout(), format)
			}
			err := transfer.WriteFile(output, func(w io.Writer) error { return a.export(w, format) })
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			a.printer(cmd).OK("exported to " + output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format (json|csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func (a *App) export(w io.Writer, format string) error {
	if format == "csv" {
		return transfer.WriteCSV(w, a.ctl.Catalog(), a.ctl.Store().UserState())
	}
	snap := a.ctl.Snapshot()
	return transfer.WriteJSON(w, snap, view.ComputeStats(a.ctl.Catalog(), a.ctl.Store().UserState()))
}

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace progress with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var im transfer.Importer
			if err := im.Select(args[0]); err != nil {
				return errors.New(transfer.Describe(err))
			}
			if err := im.ReadFile(); err != nil {
				return errors.New(transfer.Describe(err))
			}
			if _, err := im.Apply(a.ctl); err != nil {
				return errors.New(transfer.Describe(err))
			}
			snap := im.Snapshot()
			a.printer(cmd).OK(fmt.Sprintf("imported %d checked, %d notes from %s",
				countTrue(snap.Checked), len(snap.Notes), filepath.Base(args[0])))
			a.warnIfDegraded(cmd)
			return nil
		},
	}
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
