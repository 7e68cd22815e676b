package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/cache"
	"github.com/slok/sbxmon/internal/loader"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/printer"
	"github.com/slok/sbxmon/internal/reconcile"
	"github.com/slok/sbxmon/internal/storage"
	storageio "github.com/slok/sbxmon/internal/storage/io"
	"github.com/slok/sbxmon/internal/storage/memory"
	"github.com/slok/sbxmon/internal/storage/sqlite"
	"github.com/slok/sbxmon/internal/syncer"
)

const (
	autoRefreshAuto = "auto"
	autoRefreshOn   = "on"
	autoRefreshOff  = "off"

	// autoRefreshTTL is how long an explicit auto-refresh choice is
	// remembered before the default applies again.
	autoRefreshTTL = 24 * time.Hour
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval      time.Duration
	statsInterval time.Duration
	taskID        string
	autoRefresh   string
	noPersist     bool
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Watch the session, polling the task list and the selected task.")
	c.Cmd.Flag("interval", "Task list poll interval.").Default("2s").DurationVar(&c.interval)
	c.Cmd.Flag("stats-interval", "Stats poll interval.").Default("1s").DurationVar(&c.statsInterval)
	c.Cmd.Flag("task", "Task ID to follow in detail.").StringVar(&c.taskID)
	c.Cmd.Flag("auto-refresh", "Auto refresh (auto uses the remembered preference).").Default(autoRefreshAuto).EnumVar(&c.autoRefresh, autoRefreshAuto, autoRefreshOn, autoRefreshOff)
	c.Cmd.Flag("no-persist", "Keep the detail cache in memory instead of SQLite.").BoolVar(&c.noPersist)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	// Cache storage: SQLite so a restarted watch reuses fetched details,
	// memory when persistence is not wanted.
	var repo storage.Repository
	if c.noPersist {
		memRepo, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		repo = memRepo
	} else {
		sqliteRepo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.DBPath,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
	}

	store, err := cache.NewStore(cache.StoreConfig{Repository: repo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create cache store: %w", err)
	}

	reconciler, err := reconcile.NewReconciler()
	if err != nil {
		return fmt.Errorf("could not create reconciler: %w", err)
	}

	ld, err := loader.NewLoader(loader.LoaderConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create loader: %w", err)
	}

	autoRefresh, err := c.resolveAutoRefresh(ctx, logger)
	if err != nil {
		return err
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)

	session, err := syncer.NewSession(syncer.SessionConfig{
		Client:        client,
		Cache:         store,
		Reconciler:    reconciler,
		Loader:        ld,
		Logger:        logger,
		ListInterval:  c.interval,
		StatsInterval: c.statsInterval,
		OnUpdate: func(snap syncer.Snapshot) {
			renderSnapshot(p, snap)
		},
	})
	if err != nil {
		return fmt.Errorf("could not create sync session: %w", err)
	}

	if c.taskID != "" {
		session.Select(ctx, c.taskID)
	}

	if !autoRefresh {
		session.RefreshOnce(ctx)
		return nil
	}

	return session.Start(ctx)
}

// resolveAutoRefresh decides whether to poll continuously: an explicit flag
// wins and is remembered, otherwise the remembered preference applies, and
// with nothing remembered auto refresh is on.
func (c WatchCommand) resolveAutoRefresh(ctx context.Context, logger log.Logger) (bool, error) {
	prefs, err := storageio.NewPrefsYAMLRepository(c.rootCmd.PrefsPath)
	if err != nil {
		return false, fmt.Errorf("could not open preferences: %w", err)
	}

	switch c.autoRefresh {
	case autoRefreshOn, autoRefreshOff:
		value := c.autoRefresh == autoRefreshOn
		if err := prefs.SetAutoRefresh(ctx, value, autoRefreshTTL); err != nil {
			logger.Warningf("Could not persist auto-refresh preference: %s", err)
		}
		return value, nil
	}

	value, ok, err := prefs.GetAutoRefresh(ctx)
	if err != nil {
		logger.Warningf("Could not read auto-refresh preference: %s", err)
		return true, nil
	}
	if !ok {
		return true, nil
	}
	return value, nil
}

func renderSnapshot(p *printer.TablePrinter, snap syncer.Snapshot) {
	_ = p.PrintSessionInfo(snap.SessionState, snap.Stats)
	_ = p.PrintTaskList(snap.Summaries)
	if snap.Detail != nil {
		_ = p.PrintMessage("")
		_ = p.PrintTaskStatus(*snap.Detail, snap.Steps, snap.Output)
	}
	if snap.LastError != "" {
		_ = p.PrintMessage(fmt.Sprintf("warning: %s", snap.LastError))
	}
	_ = p.PrintMessage("")
}
