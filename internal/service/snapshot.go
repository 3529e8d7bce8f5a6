package service

import (
	"context"

	"go.uber.org/zap"
)

// SnapshotJob records a nightly performance overview per user so the
// analysis history has a baseline even when nobody opens the dashboard.
type SnapshotJob struct {
	Analytics *AnalyticsService
	Logger    *zap.Logger
}

func (j *SnapshotJob) Run(ctx context.Context) error {
	userIDs, err := j.Analytics.Repo.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if _, err := j.Analytics.Overview(ctx, userID, TradeFilter{}); err != nil {
			j.Logger.Warn("snapshot overview", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
	j.Logger.Info("analytics snapshot completed", zap.Int("users", len(userIDs)))
	return nil
}
