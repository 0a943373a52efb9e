package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/screenkeep/screenkeep/internal/backup"
	"github.com/screenkeep/screenkeep/internal/cli"
	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/identity"
	"github.com/screenkeep/screenkeep/internal/keyring"
	"github.com/screenkeep/screenkeep/internal/logger"
	"github.com/screenkeep/screenkeep/internal/remote"
	"github.com/screenkeep/screenkeep/internal/service"
	sqlitestore "github.com/screenkeep/screenkeep/internal/storage/sqlite"
	"github.com/screenkeep/screenkeep/internal/usage"
)

var CLI struct {
	Version kong.VersionFlag

	DB        string        `help:"Local database path." env:"SCREENKEEP_DB" default:"~/.config/screenkeep/screenkeep.db"`
	UID       string        `help:"Account uid; omit to run anonymously." env:"SCREENKEEP_UID"`
	Feed      string        `help:"Usage event feed file (JSON)." env:"SCREENKEEP_FEED"`
	RemoteDSN string        `help:"Remote backup store DSN. Falls back to the OS keyring when unset." env:"SCREENKEEP_REMOTE_DSN"`
	Interval  time.Duration `help:"Watch-mode refresh interval." env:"SCREENKEEP_INTERVAL" default:"15m"`
	Exclude   []string      `help:"Packages excluded from aggregation (launchers, the host shell)." env:"SCREENKEEP_EXCLUDE"`
	Debug     bool          `help:"Enable debug logging to stderr." env:"SCREENKEEP_DEBUG"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize local storage."`
	Migrate cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	Refresh  cli.RefreshCmd  `cmd:"" help:"Run one aggregation pass and print the snapshot."`
	Snapshot cli.SnapshotCmd `cmd:"" help:"Print the latest snapshot." default:"1"`
	History  cli.HistoryCmd  `cmd:"" help:"Show recent daily usage against the goals then in force."`
	Watch    cli.WatchCmd    `cmd:"" help:"Run the periodic aggregation loop in the foreground."`

	Goal struct {
		Set  cli.GoalSetCmd  `cmd:"" help:"Set a daily goal effective today."`
		List cli.GoalListCmd `cmd:"" help:"Show the goals effective on a date."`
	} `cmd:"" help:"Manage daily usage goals."`
	Track struct {
		Set  cli.TrackSetCmd  `cmd:"" help:"Replace the tracked package set effective today."`
		Show cli.TrackShowCmd `cmd:"" help:"Show the tracked set effective on a date."`
	} `cmd:"" help:"Manage the tracked package set."`

	Backup  cli.BackupNowCmd `cmd:"" help:"Push today's tracked usage to the remote store."`
	Restore cli.RestoreCmd   `cmd:"" help:"Pull remote history into the local store."`

	Remote struct {
		SetDSN   cli.RemoteSetDSNCmd   `cmd:"" name:"set-dsn" help:"Store the remote DSN in the OS keyring."`
		ClearDSN cli.RemoteClearDSNCmd `cmd:"" name:"clear-dsn" help:"Remove the stored remote DSN."`
		Status   cli.RemoteStatusCmd   `cmd:"" help:"Show remote configuration status."`
	} `cmd:"" help:"Manage the remote backup store."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Per-app screen time tracker with goals, streaks, and remote backup"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	dbPath := expandHome(CLI.DB)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(dbPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := sqlitestore.NewStore(dbPath)

	// Commands that only touch the keyring or create the database do not
	// need a loaded store.
	cmdName := ""
	if ctx.Selected() != nil {
		cmdName = ctx.Selected().Name
	}
	switch cmdName {
	case "init", "set-dsn", "clear-dsn", "status":
	default:
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	remoteStore, remoteConfigured := buildRemote(CLI.RemoteDSN)

	var source usage.Source
	if CLI.Feed != "" {
		source = usage.NewFileSource(expandHome(CLI.Feed))
	} else {
		source = &usage.StaticSource{}
	}
	aggregator := usage.NewAggregator(source)
	aggregator.ExcludePackages = CLI.Exclude

	ident := identity.NewStatic(CLI.UID)
	engine := backup.NewEngine(store, remoteStore)
	svc := service.New(store, aggregator, ident, engine)

	appCtx := &cli.Context{
		Store:            store,
		Service:          svc,
		Identity:         ident,
		RemoteConfigured: remoteConfigured,
		Interval:         CLI.Interval,
		DBPath:           dbPath,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildRemote resolves the backup DSN flag -> env -> keyring and wires
// the postgres store when one is found. Without a DSN the engine runs
// against the unconfigured placeholder and every backup is skipped.
func buildRemote(dsn string) (remote.Store, bool) {
	if dsn == "" {
		stored, err := keyring.GetConnectionString()
		if err != nil {
			if !errors.Is(err, keyring.ErrNotFound) {
				logger.Warn("keyring lookup failed", "error", err)
			}
			return remote.Unconfigured{}, false
		}
		dsn = stored
	}

	pg := remote.NewPostgres(dsn)
	if err := pg.Load(); err != nil {
		logger.Warn("remote store unreachable, backups disabled", "error", err)
		return remote.Unconfigured{}, false
	}
	return pg, true
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
