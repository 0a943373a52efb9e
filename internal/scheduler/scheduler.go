// Package scheduler drives the periodic background aggregation pass.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"github.com/screenkeep/screenkeep/internal/logger"
	"github.com/screenkeep/screenkeep/internal/service"
)

// Scheduler re-invokes the aggregation pipeline on a fixed interval.
// Passes triggered here are additionally serialized among themselves by
// opsMu, on top of the service's own per-uid serialization.
type Scheduler struct {
	svc      *service.Service
	interval time.Duration
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func New(svc *service.Service, interval time.Duration) *Scheduler {
	return &Scheduler{svc: svc, interval: interval}
}

// Start begins the periodic refresh loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		snap, err := s.svc.Refresh(ctx)
		if err != nil {
			logger.Error("periodic refresh failed", "error", err)
			return
		}
		logger.Debug("periodic refresh complete", "uid", snap.UID, "apps", len(snap.PerApp))
	})

	s.cron.Start()
}

// Stop halts the loop. A pass already running finishes.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
