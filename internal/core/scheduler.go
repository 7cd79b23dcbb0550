package core

// scheduler.go runs background maintenance on a cron schedule.
//
// The only job is the session sweep, which drops sessions idle longer than
// the session TTL so their tables can be garbage collected. Lookups already
// refuse expired sessions; the sweep only reclaims memory.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the session sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

// StartSessionSweeper schedules the session sweep and returns once the cron
// runner is started. The runner stops when ctx is cancelled; an invalid
// schedule is returned as an error and nothing is started.
func (s *Service) StartSessionSweeper(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.opts.SweepSchedule, s.sweepSessions); err != nil {
		return fmt.Errorf("session sweeper schedule %q: %w", s.opts.SweepSchedule, err)
	}
	c.Start()

	slog.Info("session sweeper started",
		"schedule", s.opts.SweepSchedule,
		"ttl", s.opts.SessionTTL.String(),
		"max_sessions", s.opts.MaxSessions,
	)

	go func() {
		<-ctx.Done()
		// Stop returns a context that is done once a running sweep finishes.
		<-c.Stop().Done()
		slog.Info("session sweeper stopped")
	}()
	return nil
}

// sweepSessions performs one sweep.
func (s *Service) sweepSessions() {
	start := time.Now()
	removed := s.sessions.Sweep()
	if removed == 0 {
		slog.Debug("session sweep completed", "remaining", s.sessions.Len())
		return
	}
	slog.Info("expired sessions removed",
		"removed", removed,
		"remaining", s.sessions.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
