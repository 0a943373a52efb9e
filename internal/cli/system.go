package cli

import (
	"fmt"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/keyring"
)

// InitCmd creates the local database and applies all migrations.
type InitCmd struct{}

func (c *InitCmd) Run(appCtx *Context) error {
	if err := appCtx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at %s\n", constants.AppName, appCtx.DBPath)
	return nil
}

// MigrateCmd applies pending schema migrations to an existing database.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(appCtx *Context) error {
	// Init is idempotent on an existing database: it only applies what
	// is pending.
	if err := appCtx.Store.Init(); err != nil {
		return err
	}
	fmt.Println("Database schema is up to date")
	return nil
}

// DoctorCmd runs health checks: local store, keyring, remote wiring, and
// whether another watcher process is already serializing the periodic
// pass.
type DoctorCmd struct{}

func (c *DoctorCmd) Run(appCtx *Context) error {
	ok := true

	if err := appCtx.Store.Load(); err != nil {
		ok = false
		fmt.Printf("✗ local store: %v\n", err)
	} else {
		fmt.Printf("✓ local store: %s\n", appCtx.DBPath)
	}

	if keyring.IsAvailable() {
		fmt.Println("✓ OS keyring available")
	} else {
		fmt.Println("✗ OS keyring unavailable (remote DSN must come from flag or environment)")
	}

	if appCtx.RemoteConfigured {
		fmt.Println("✓ remote backup store configured")
	} else {
		fmt.Println("- remote backup store not configured (backups skipped)")
	}

	watchers, err := runningWatchers()
	if err != nil {
		fmt.Printf("- could not inspect processes: %v\n", err)
	} else if watchers > 1 {
		fmt.Printf("! %d %s processes running; only one watcher should refresh per database\n", watchers, constants.AppName)
	} else {
		fmt.Println("✓ no competing watcher process")
	}

	if !ok {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

// runningWatchers counts live processes named after this binary,
// including the current one.
func runningWatchers() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range procs {
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			count++
		}
	}
	return count, nil
}
