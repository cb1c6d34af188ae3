package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/model"
)

type markMode int

const (
	markCheck markMode = iota
	markUncheck
	markToggle
)

func newMarkCmd(a *App, use, short string, mode markMode) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <domain>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.resolveDomains(args)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			for _, it := range items {
				id := it.ID
				var act app.Action
				switch mode {
				case markCheck:
					act = app.SetChecked{ID: id, Value: true}
				case markUncheck:
					act = app.SetChecked{ID: id, Value: false}
				default:
					act = app.ToggleChecked{ID: id}
				}
				if err := a.ctl.Dispatch(act); err != nil {
					return err
				}
				tag := p.C(p.Theme().CategoryColor(it.Category), "["+string(it.Category)+"]")
				if a.ctl.Store().GetChecked(id) {
					p.OK("secured " + id + " " + tag)
				} else {
					p.OK("unmarked " + id + " " + tag)
				}
			}
			a.warnIfDegraded(cmd)
			return nil
		},
	}
}

// resolveDomains normalizes ids and rejects anything outside the catalog.
// All ids are checked before any is changed.
func (a *App) resolveDomains(args []string) ([]model.Item, error) {
	cat := a.ctl.Catalog()
	out := make([]model.Item, 0, len(args))
	for _, arg := range args {
		it, ok := cat.Lookup(normalizeDomain(arg))
		if !ok {
			return nil, errNotFound("domain", arg)
		}
		out = append(out, it)
	}
	return out, nil
}

// normalizeDomain lowercases and strips a URL scheme and trailing slash, so a
// pasted https://adobe.com/ resolves to adobe.com.
func normalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	return s
}

func (a *App) warnIfDegraded(cmd *cobra.Command) {
	if a.ctl.Store().Degraded() {
		a.printer(cmd).Hint("warning: storage unavailable, changes were not saved")
	}
}
