package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/model"
)

func newThemeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ThemeDark), string(model.ThemeLight)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				a.printer(cmd).Println(string(a.ctl.Store().Theme()))
				return nil
			}
			t, err := model.ParseTheme(args[0])
			if err != nil {
				return errUsage("%v", err)
			}
			if err := a.ctl.Dispatch(app.SetTheme{Theme: t}); err != nil {
				return err
			}
			a.printer(cmd).OK("theme set to " + string(t))
			a.warnIfDegraded(cmd)
			return nil
		},
	}
}
