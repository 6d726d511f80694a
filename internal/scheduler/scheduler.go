package scheduler

import (
	"context"
	"errors"
	"time"

	"skill-pulse/internal/usecase/scan"
	"skill-pulse/internal/ws"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the staleness scan on a cron expression. The scan's redis
// lock makes overlapping triggers across instances a no-op; cron.SkipIfStillRunning
// guards against overlap within this process.
type Scheduler struct {
	cron    *cron.Cron
	scanner *scan.Scanner
	logger  *zap.Logger
	spec    string
}

func New(scanner *scan.Scanner, logger *zap.Logger, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		scanner: scanner,
		logger:  logger,
		spec:    spec,
	}
}

func (s *Scheduler) Start() error {
	if s == nil || s.scanner == nil {
		return errors.New("scheduler not configured")
	}

	_, err := s.cron.AddFunc(s.spec, s.runScan)
	if err != nil {
		return err
	}

	s.cron.Start()
	if s.logger != nil {
		s.logger.Info("staleness scan scheduled", zap.String("cron", s.spec))
	}
	return nil
}

func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		if s.logger != nil {
			s.logger.Warn("timed out waiting for running scan to finish")
		}
	}
}

func (s *Scheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	rep, err := s.scanner.Run(ctx)
	if err != nil {
		if errors.Is(err, scan.ErrScanInProgress) {
			if s.logger != nil {
				s.logger.Info("staleness scan skipped, previous run still holds the lock")
			}
			return
		}
		if s.logger != nil {
			s.logger.Error("staleness scan failed", zap.Error(err))
		}
		return
	}

	ws.NotifyScanCompleted(rep.SuggestionsCreated, rep.StaleSkills)
}
