package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/feed"
	"github.com/pders01/jaenan/internal/search"
	"github.com/pders01/jaenan/internal/share"
	"github.com/pders01/jaenan/internal/source"
	"github.com/pders01/jaenan/internal/storage"
	"github.com/pders01/jaenan/internal/tui"
)

// Version is set at build time.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	dbPath     string
	endpoint   string
	quiet      bool

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jaenan",
		Short:         "Korean emergency broadcast messages in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = debuglog.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to configuration file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	f.StringVar(&opts.dbPath, "db", "", "path to history database (overrides config)")
	f.StringVar(&opts.endpoint, "endpoint", "", "feed endpoint (overrides config)")
	root.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "skip startup banner")

	root.AddCommand(
		newListCmd(opts),
		newSummaryCmd(opts),
		newShareCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
		newGenerateConfigCmd(),
	)
	return root
}

// load reads the config and applies flag overrides and logging.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.endpoint != "" {
		cfg.Feed.Endpoint = o.endpoint
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if lvl := debuglog.ParseLevel(cfg.Log.Level); lvl != debuglog.LevelOff {
		path := cfg.Log.File
		if path == "" {
			path = debuglog.DefaultPath()
		}
		if err := debuglog.Setup(lvl, path); err != nil {
			return fmt.Errorf("setting up log: %w", err)
		}
	}

	tui.ApplyColors(cfg.UI.Colors)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) openSource() (source.Source, error) {
	f := o.cfg.Feed
	return source.DefaultRegistry().Open(f.Source, source.Options{
		Endpoint:   f.Endpoint,
		UserAgent:  f.UserAgent,
		Timeout:    f.HTTPTimeout,
		AllowLocal: f.AllowLocalEndpoint,
	})
}

// openStore opens the history database. History is optional: a failure is
// logged and the caller continues without it.
func (o *rootOptions) openStore() *storage.Store {
	store, err := storage.NewStore(o.cfg.Database.Path, o.cfg.Database.Timeout)
	if err != nil {
		debuglog.Warnf("history disabled: %v", err)
		return nil
	}
	return store
}

func runTUI(opts *rootOptions) error {
	cfg := opts.cfg
	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	src, err := opts.openSource()
	if err != nil {
		return err
	}

	bridge := tui.NewBridge()
	defer bridge.Close()

	ctrl := feed.NewController(src, feed.Options{
		Clock:      feed.SystemClock{},
		Cooldown:   cfg.Feed.Cooldown(),
		PageSize:   cfg.Feed.PageSize,
		WindowSize: cfg.Feed.PageWindow,
		OnChange:   bridge.OnChange,
		OnNotice:   bridge.OnNotice,
	})
	defer ctrl.Close()

	index := search.New()
	defer index.Close()

	deps := tui.Deps{
		Config:     cfg,
		Controller: ctrl,
		Bridge:     bridge,
		Sharer:     share.New(cfg.Share),
		Index:      index,
	}
	// A nil *storage.Store must not become a non-nil Recorder.
	if store := opts.openStore(); store != nil {
		defer store.Close()
		deps.Store = store
	}

	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jaenan", "config.toml")
}
