// Package scheduler runs the team activity check on a cron schedule inside
// the API process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

type TeamActivityScheduler struct {
	cron    *cron.Cron
	runner  service_interfaces.TeamActivityRunner
	timeout time.Duration

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTeamActivityScheduler parses spec with the standard five-field parser,
// which also accepts descriptors such as @hourly. Overlapping runs are skipped.
func NewTeamActivityScheduler(spec string, runner service_interfaces.TeamActivityRunner, timeout time.Duration) (*TeamActivityScheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &TeamActivityScheduler{
		cron:    c,
		runner:  runner,
		timeout: timeout,
	}
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("schedule team activity check %q: %w", spec, err)
	}

	return s, nil
}

func (s *TeamActivityScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	logger.Info("team activity scheduler started", logger.Fields{
		"entries": len(s.cron.Entries()),
	})
}

// Stop cancels a run in progress and waits for it to return.
func (s *TeamActivityScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	logger.Info("team activity scheduler stopped", nil)
}

func (s *TeamActivityScheduler) runOnce() {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx := parent
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeout)
		defer cancel()
	}

	if _, err := s.runner.Run(ctx); err != nil {
		logger.Error("scheduled team activity check failed", err, nil)
	}
}
