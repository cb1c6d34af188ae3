package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/app"
)

func newNoteCmd(a *App) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "note <domain> [text...]",
		Short: "Show or set the note for a domain",
		Long:  "With no text, prints the current note. With text, replaces it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear && len(args) > 1 {
				return errUsage("--clear takes no note text")
			}
			items, err := a.resolveDomains(args[:1])
			if err != nil {
				return err
			}
			id := items[0].ID
			p := a.printer(cmd)
			text := strings.Join(args[1:], " ")

			if !clear && text == "" {
				if note := a.ctl.Store().GetNote(id); note != "" {
					p.Println(note)
				} else {
					p.Println(p.C(p.Theme().Muted, "(no note)"))
				}
				return nil
			}
			if err := a.ctl.Dispatch(app.SetNote{ID: id, Text: text}); err != nil {
				return err
			}
			if clear {
				p.OK("cleared note for " + id)
			} else {
				p.OK("saved note for " + id)
			}
			a.warnIfDegraded(cmd)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the note")
	return cmd
}
