package cli

import (
	"fmt"

	"github.com/screenkeep/screenkeep/internal/backup"
)

// BackupNowCmd pushes today's tracked usage to the remote store.
type BackupNowCmd struct{}

func (c *BackupNowCmd) Run(appCtx *Context) error {
	if !appCtx.RemoteConfigured {
		return fmt.Errorf("no remote store configured, set a DSN with 'screenkeep remote set-dsn'")
	}
	if appCtx.Identity.IsAnonymous() {
		return fmt.Errorf("backups require a signed-in uid, pass --uid")
	}

	sent, err := appCtx.Service.BackupToday(appCtx.Background())
	if err != nil {
		return err
	}
	if !sent {
		fmt.Println("Nothing backed up (remote unreachable or nothing to send)")
		return nil
	}
	fmt.Println("Backed up today's usage")
	return nil
}

// RestoreCmd pulls the remote collections for the current uid into the
// local store. Each collection restores independently; a failure in one
// does not abort the others.
type RestoreCmd struct{}

func (c *RestoreCmd) Run(appCtx *Context) error {
	if !appCtx.RemoteConfigured {
		return fmt.Errorf("no remote store configured, set a DSN with 'screenkeep remote set-dsn'")
	}
	if appCtx.Identity.IsAnonymous() {
		return fmt.Errorf("restore requires a signed-in uid, pass --uid")
	}

	result, err := appCtx.Service.RestoreAfterSignIn(appCtx.Background())
	if err != nil {
		return err
	}
	printCollection("daily records", result.Daily)
	printCollection("goal history", result.Goals)
	printCollection("tracking history", result.Tracking)
	if !result.Ok() {
		return fmt.Errorf("restore completed with errors")
	}
	return nil
}

func printCollection(name string, res backup.CollectionResult) {
	switch {
	case res.Err != nil:
		fmt.Printf("✗ %s: %v\n", name, res.Err)
	case res.Restored:
		fmt.Printf("✓ %s: %d document(s)\n", name, res.Count)
	default:
		fmt.Printf("- %s: nothing to restore\n", name)
	}
}
