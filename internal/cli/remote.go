package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/screenkeep/screenkeep/internal/keyring"
)

// RemoteSetDSNCmd stores the remote postgres DSN in the OS keyring so
// it never lands in shell history or config files.
type RemoteSetDSNCmd struct {
	DSN string `arg:"" help:"PostgreSQL connection string for the backup store."`
}

func (c *RemoteSetDSNCmd) Run(appCtx *Context) error {
	if !strings.HasPrefix(c.DSN, "postgres://") && !strings.HasPrefix(c.DSN, "postgresql://") {
		return fmt.Errorf("DSN must be a postgres:// or postgresql:// connection string")
	}
	if err := keyring.SetConnectionString(c.DSN); err != nil {
		return err
	}
	fmt.Println("Remote DSN stored in OS keyring")
	return nil
}

// RemoteClearDSNCmd removes the stored remote DSN.
type RemoteClearDSNCmd struct{}

func (c *RemoteClearDSNCmd) Run(appCtx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("No remote DSN stored")
			return nil
		}
		return err
	}
	fmt.Println("Remote DSN removed from OS keyring")
	return nil
}

// RemoteStatusCmd reports where the remote DSN would be resolved from.
type RemoteStatusCmd struct{}

func (c *RemoteStatusCmd) Run(appCtx *Context) error {
	if appCtx.RemoteConfigured {
		fmt.Println("Remote backup store: configured")
	} else {
		fmt.Println("Remote backup store: not configured")
	}
	_, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Println("Keyring DSN: present")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("Keyring DSN: not set")
	default:
		fmt.Printf("Keyring DSN: unavailable (%v)\n", err)
	}
	return nil
}
