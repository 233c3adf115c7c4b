// Package worker provides background maintenance loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/controle-financeiro/backend/internal/application/adapter"
)

// CodeSweeper periodically garbage-collects expired linking codes.
// The sweep is a housekeeping optimization: expiry is enforced at
// consumption time regardless of whether the sweeper has run.
type CodeSweeper struct {
	codeRepo adapter.LinkingCodeRepository
	interval time.Duration
}

// SweeperConfig holds configuration for the code sweeper.
type SweeperConfig struct {
	Interval time.Duration
}

// DefaultSweeperConfig returns the default sweeper configuration.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval: 5 * time.Minute,
	}
}

// NewCodeSweeper creates a new code sweeper.
func NewCodeSweeper(codeRepo adapter.LinkingCodeRepository, config SweeperConfig) *CodeSweeper {
	return &CodeSweeper{
		codeRepo: codeRepo,
		interval: config.Interval,
	}
}

// Start begins the sweep loop. It blocks until the context is cancelled.
func (s *CodeSweeper) Start(ctx context.Context) {
	slog.Info("Linking code sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on start, then on ticker
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Linking code sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep removes codes whose expiry has passed.
func (s *CodeSweeper) sweep(ctx context.Context) {
	removed, err := s.codeRepo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("Failed to sweep expired linking codes", "error", err)
		return
	}

	if removed > 0 {
		slog.Debug("Swept expired linking codes", "removed", removed)
	}
}
