package cli

import (
	"context"
	"time"

	"github.com/screenkeep/screenkeep/internal/identity"
	"github.com/screenkeep/screenkeep/internal/service"
	"github.com/screenkeep/screenkeep/internal/storage"
)

// Context carries the wired engine into the kong command handlers.
type Context struct {
	Store    storage.Provider
	Service  *service.Service
	Identity *identity.Static

	// RemoteConfigured reports whether a real remote backend is wired
	// in, as opposed to the unconfigured placeholder.
	RemoteConfigured bool

	// Interval is the watch-mode refresh period.
	Interval time.Duration

	// DBPath is the resolved local database path.
	DBPath string
}

// Background returns the context commands should run under.
func (c *Context) Background() context.Context {
	return context.Background()
}
