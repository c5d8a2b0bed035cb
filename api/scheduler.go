/*
scheduler.go - Month-close snapshot scheduler

PURPOSE:
  Once a month has ended, stores its report as a snapshot so later
  recomputations can be verified against it (GET /api/reports/{m}/verify).

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each check targets the month before the current one
  - Skips months that already have a snapshot, so a stored month is never
    overwritten by the scheduler (POST .../snapshot replaces explicitly)

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewSnapshotScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: SaveSnapshot / VerifySnapshot endpoints
  - payroll/snapshot.go: DiffReports
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
	"go.uber.org/zap"
)

// SnapshotScheduler stores closed months automatically.
type SnapshotScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool
	Now           func() time.Time

	logger *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotScheduler creates a new scheduler.
func NewSnapshotScheduler(handler *Handler) *SnapshotScheduler {
	return &SnapshotScheduler{
		Handler:       handler,
		CheckInterval: time.Hour,
		Enabled:       true,
		Now:           time.Now,
		logger:        handler.Logger.Named("scheduler"),
	}
}

// Start begins the scheduler.
func (s *SnapshotScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled || s.CheckInterval <= 0 {
		s.logger.Info("snapshot scheduler disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	s.logger.Info("snapshot scheduler started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.logger.Info("snapshot scheduler stopped")
}

func (s *SnapshotScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.RunNow(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow snapshots the previous month if it has no snapshot yet.
// Returns the month and whether a snapshot was written.
func (s *SnapshotScheduler) RunNow(ctx context.Context) (payroll.YearMonth, bool) {
	closed := payroll.MonthOf(s.Now().UTC()).Previous()

	existing, err := s.Handler.Store.GetSnapshot(ctx, closed)
	if err != nil {
		s.logger.Error("snapshot lookup failed", zap.String("year_month", closed.String()), zap.Error(err))
		return closed, false
	}
	if existing != nil {
		s.logger.Debug("month already snapshotted", zap.String("year_month", closed.String()))
		return closed, false
	}

	snap, err := s.Handler.takeSnapshot(ctx, closed.String())
	if err != nil {
		s.logger.Error("snapshot failed", zap.String("year_month", closed.String()), zap.Error(err))
		return closed, false
	}

	s.logger.Info("month snapshotted",
		zap.String("year_month", closed.String()),
		zap.Int("rows", len(snap.Rows)))
	return closed, true
}

// NextRunTime returns when the next scheduled check will run.
func (s *SnapshotScheduler) NextRunTime() time.Time {
	return s.Now().Add(s.CheckInterval)
}
