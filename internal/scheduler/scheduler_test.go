package scheduler

import (
	"context"
	"testing"

	"gatherly/internal/catalog"
	applog "gatherly/internal/log"
)

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) (catalog.Snapshot, error) {
	return catalog.Snapshot{}, nil
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(noopRefresher{}, applog.New(applog.DefaultConfig()))
	if err := s.Start("not a cron spec"); err == nil {
		t.Error("invalid spec should be rejected")
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(noopRefresher{}, applog.New(applog.DefaultConfig()))
	if err := s.Start("*/30 * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
