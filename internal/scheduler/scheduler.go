// Package scheduler runs the overdue scan on a cron schedule inside the server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

// Scanner is the job the scheduler runs.
type Scanner interface {
	Run(ctx context.Context) (service.ScanResult, error)
}

// Scheduler triggers scans on a schedule. A run still in progress when the
// next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	scanner Scanner
	ctx     context.Context
	running atomic.Bool
	runs    atomic.Int64
}

// New parses spec (standard cron or descriptors like "@every 15m") and
// registers the scan job.
func New(ctx context.Context, spec string, scanner Scanner) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		scanner: scanner,
		ctx:     ctx,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("parse scan schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("overdue scan scheduler started", "entries", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for a running scan to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out with a scan in progress")
	}
}

// Runs reports how many scans have completed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("skipping overdue scan, previous run still in progress")
		return
	}
	defer s.running.Store(false)

	result, err := s.scanner.Run(s.ctx)
	s.runs.Add(1)
	if err != nil {
		slog.Error("scheduled overdue scan failed",
			"error", err,
			"overdue_tasks_notified", result.OverdueTasksNotified,
			"overdue_approvals_notified", result.OverdueApprovalsNotified,
		)
	}
}
