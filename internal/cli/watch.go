package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/screenkeep/screenkeep/internal/logger"
	"github.com/screenkeep/screenkeep/internal/scheduler"
)

// WatchCmd runs the periodic aggregation loop in the foreground until
// interrupted. Identity changes trigger a restore (sign-in) or a plain
// refresh (sign-out) while the loop runs.
type WatchCmd struct{}

func (c *WatchCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithCancel(appCtx.Background())
	defer cancel()

	unbind := appCtx.Service.BindIdentity(ctx)
	defer unbind()

	// One immediate pass so the first snapshot doesn't wait a full
	// interval.
	if _, err := appCtx.Service.Refresh(ctx); err != nil {
		return err
	}

	sched := scheduler.New(appCtx.Service, appCtx.Interval)
	sched.Start(ctx)
	defer sched.Stop()

	logger.Info("watch started", "interval", appCtx.Interval)
	fmt.Printf("Watching usage every %s (ctrl-c to stop)\n", appCtx.Interval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("watch stopped")
	return nil
}
