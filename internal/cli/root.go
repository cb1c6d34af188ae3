// Package cli wires the breachtrack command tree. With no subcommand the root
// command starts the interactive TUI.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/app"
	"github.com/idilsaglam/breachtrack/internal/catalog"
	"github.com/idilsaglam/breachtrack/internal/config"
	"github.com/idilsaglam/breachtrack/internal/kv"
	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/store"
	"github.com/idilsaglam/breachtrack/internal/tui"
	"github.com/idilsaglam/breachtrack/internal/ui"
)

type App struct {
	ConfigPath  string
	Backend     string
	DataDir     string
	CatalogPath string
	Verbose     bool
	NoColor     bool
	Ephemeral   bool

	cfg *config.Config
	log *zap.Logger
	ctl *app.Controller

	// runTUI is swapped out in tests.
	runTUI func(ctx context.Context, a *App) error
}

func NewRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *App) {
	a := &App{runTUI: startTUI}

	cmd := &cobra.Command{
		Use:           "breachtrack",
		Short:         "Track which breached sites you have secured",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive checklist
  breachtrack

  # Scriptable commands
  breachtrack ls --filter critical
  breachtrack check linkedin.com
  breachtrack note adobe.com "rotated password, enabled 2FA"
  breachtrack export --format csv -o progress.csv
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return a.runTUI(cmd.Context(), a)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd, cmd == cmd.Root())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.close()
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("BREACHTRACK_CONFIG", config.DefaultPath()), "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&a.Backend, "backend", "", "Storage backend (file|sqlite|redis|memory)")
	cmd.PersistentFlags().StringVar(&a.DataDir, "data-dir", "", "Directory for file and sqlite storage")
	cmd.PersistentFlags().StringVar(&a.CatalogPath, "catalog", "", "YAML catalog replacing the built-in domain list")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVar(&a.NoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&a.Ephemeral, "ephemeral", false, "Keep state in memory only")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newMarkCmd(a, "check", "Mark domains as secured", markCheck))
	cmd.AddCommand(newMarkCmd(a, "uncheck", "Clear the secured mark", markUncheck))
	cmd.AddCommand(newMarkCmd(a, "toggle", "Flip the secured mark", markToggle))
	cmd.AddCommand(newNoteCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newThemeCmd(a))
	cmd.AddCommand(newCatalogCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd, a
}

// Execute runs the command tree on os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd, a := newRoot()
	err := cmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		p := ui.NewPrinter(os.Stdout, os.Stderr, ui.PrinterOptions{NoColor: noColorArg(os.Args)})
		p.Fail(err.Error())
		if hint := hintFor(err); hint != "" {
			p.Hint(hint)
		}
		return 1
	}
	return 0
}

func noColorArg(args []string) bool {
	for _, a := range args {
		if a == "--no-color" {
			return true
		}
	}
	return os.Getenv("NO_COLOR") != ""
}

// setup loads config, builds the logger and opens state. The TUI logs to a
// file so log lines don't tear the screen.
func (a *App) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.Backend != "" {
		cfg.Storage.Backend = a.Backend
	}
	if a.Ephemeral {
		cfg.Storage.Backend = kv.BackendMemory
	}
	if a.DataDir != "" {
		cfg.Storage.DataDir = a.DataDir
	}
	if a.CatalogPath != "" {
		cfg.Catalog.Path = a.CatalogPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logOpts := logging.Options{Level: cfg.Logging.Level, Verbose: a.Verbose}
	if interactive {
		logOpts.File = cfg.LogFile()
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	a.log = log

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	backend, err := kv.Open(cmd.Context(), cfg.KVOptions())
	if err != nil {
		// State stays usable for the session; nothing is persisted.
		log.Warn("storage unavailable, running in memory", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		backend = nil
	}
	st := store.Open(backend, store.WithLogger(log))
	a.ctl = app.New(cat, st, app.Options{
		Logger:       log,
		NoteDebounce: cfg.UI.NoteDebounce,
	})
	return nil
}

func (a *App) close() error {
	var err error
	if a.ctl != nil {
		err = a.ctl.Close()
		a.ctl = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func (a *App) printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.PrinterOptions{
		Theme:   a.ctl.Store().Theme(),
		NoColor: a.NoColor,
	})
}

func startTUI(ctx context.Context, a *App) error {
	return tui.Run(ctx, a.ctl, tui.Options{
		CatalogPath:    a.cfg.Catalog.Path,
		WatchCatalog:   a.cfg.Catalog.Watch,
		SearchDebounce: a.cfg.UI.SearchDebounce,
		Logger:         a.log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
