package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/metrics"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

type PendingCounter interface {
	CountPendingByRole(ctx context.Context) (map[model.Role]int, error)
}

// StartPendingApplicationsJob keeps the pending accounts gauge current until ctx is done.
func StartPendingApplicationsJob(ctx context.Context, interval time.Duration, store PendingCounter, log *zap.Logger) {
	if store == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := interval / 2
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	refresh := func() {
		tickCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := RefreshPendingApplications(tickCtx, store); err != nil {
			log.Warn("pending applications job error", zap.Error(err))
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()
}

func RefreshPendingApplications(ctx context.Context, store PendingCounter) error {
	counts, err := store.CountPendingByRole(ctx)
	if err != nil {
		return err
	}
	for _, role := range []model.Role{model.RoleTeacher, model.RoleStudent} {
		metrics.PendingApplications.WithLabelValues(string(role)).Set(float64(counts[role]))
	}
	return nil
}
