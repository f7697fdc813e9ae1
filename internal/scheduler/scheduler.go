// Package scheduler drives the periodic catalog refresh.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"gatherly/internal/catalog"
	applog "gatherly/internal/log"
)

// Refresher is the slice of the catalog service the scheduler needs.
type Refresher interface {
	Refresh(ctx context.Context) (catalog.Snapshot, error)
}

// Scheduler refreshes the catalog snapshot on a cron schedule. Failures are
// logged and the last good snapshot stays in place.
type Scheduler struct {
	cron    *cron.Cron
	catalog Refresher
	logger  *applog.Logger
}

func New(catalog Refresher, logger *applog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		catalog: catalog,
		logger:  logger.WithComponent(applog.ComponentScheduler),
	}
}

// Start registers the refresh job and starts the cron loop. The spec uses the
// standard five-field cron syntax.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if _, err := s.catalog.Refresh(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled catalog refresh failed", applog.FieldError, err)
			return
		}
		s.logger.DebugContext(ctx, "scheduled catalog refresh completed")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("catalog refresh scheduled", "spec", spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
