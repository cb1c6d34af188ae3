// Package tui is the interactive checklist. It renders the controller's
// projection with Bubble Tea and turns key presses into controller actions.
package tui

import (
	"context"
	"errors"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/catalog"
	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/ui"
	"github.com/idilsaglam/breachtrack/internal/view"
)

// sink is the controller's renderer while the program runs. Renders that
// happen off the UI goroutine become one refreshMsg; the model re-reads the
// projection itself, so a late message can never show stale data.
type sink struct {
	send    func(tea.Msg)
	pending atomic.Bool
}

func (s *sink) Render([]view.DisplayItem, view.Stats) {
	if s.send == nil || !s.pending.CompareAndSwap(false, true) {
		return
	}
	// Program.Send blocks until Update reads it, and Render may be called
	// from inside Update.
	go s.send(refreshMsg{})
}

func (s *sink) done() { s.pending.Store(false) }

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctl *app.Controller, opts Options) error {
	log := logging.OrNop(opts.Logger)

	// First launch: match the terminal instead of assuming dark.
	if !ctl.Store().WelcomeShown() {
		_ = ctl.Dispatch(app.SetTheme{Theme: ui.DetectTheme(termenv.NewOutput(os.Stdout))})
	}

	m := New(ctl, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.sink.send = p.Send
	ctl.SetRenderer(m.sink)
	defer ctl.SetRenderer(nil)

	if opts.WatchCatalog && opts.CatalogPath != "" {
		wctx, cancel := context.WithCancel(ctx)
		w, err := catalog.Watch(wctx, opts.CatalogPath, log, func(c model.Catalog) {
			_ = ctl.Dispatch(app.ReplaceCatalog{Catalog: c})
			p.Send(noticeMsg{text: "Catalog reloaded"})
		})
		if err != nil {
			cancel()
			log.Warn("catalog watch disabled", zap.String("path", opts.CatalogPath), zap.Error(err))
		} else {
			defer func() {
				cancel()
				<-w.Done()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
