package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleEvicter drops games that have been idle since before a cutoff.
type IdleEvicter interface {
	EvictIdle(before time.Time) int
	Len() int
}

// SessionSweeper periodically evicts idle games so abandoned chats do not pile up in memory.
type SessionSweeper struct {
	registry IdleEvicter
	ttl      time.Duration
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionSweeper creates a new sweeper running on a cron schedule.
func NewSessionSweeper(registry IdleEvicter, ttl time.Duration, schedule string, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		registry: registry,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the sweep schedule until ctx is done.
func (s *SessionSweeper) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.Sweep()
	})
	if err != nil {
		return err
	}

	c.Start()
	s.logger.Info("session sweeper started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
	return nil
}

// Sweep evicts games idle for longer than the TTL and returns how many were removed.
func (s *SessionSweeper) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	evicted := s.registry.EvictIdle(cutoff)
	if evicted > 0 {
		s.logger.Info("idle games evicted",
			zap.Int("count", evicted),
			zap.Int("active", s.registry.Len()),
		)
	}
	return evicted
}
