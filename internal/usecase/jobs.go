package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinScreen/internal/domain/models"
	drepo "CoinScreen/internal/domain/repository"
	"CoinScreen/pkg/queue"
	"CoinScreen/pkg/util"
)

// ScreeningJob runs queued screening requests. Async API calls enqueue
// a RunScreeningRequest and the queue worker replays it here.
type ScreeningJob struct {
	runner *ScreeningRunner
}

var _ queue.Job = (*ScreeningJob)(nil)

func NewScreeningJob(runner *ScreeningRunner) *ScreeningJob {
	return &ScreeningJob{runner: runner}
}

func (j *ScreeningJob) Name() string { return "screening_runner" }
func (j *ScreeningJob) Type() string { return "screening.run" }

func (j *ScreeningJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[models.RunScreeningRequest](payload)
	if err != nil {
		return fmt.Errorf("parse screening payload: %w", err)
	}

	params := RunParams{
		CoinIDs: req.Coins,
		Spec: models.TimeframeSpec{
			Days:      req.Timeframes,
			Direction: drepo.NormalizeDirection(req.Direction),
			Anchor:    util.ParseTimeDefault(req.Anchor, time.Time{}),
		},
		OrderBy: drepo.NormalizeOrderBy(req.OrderBy),
	}
	if _, err := j.runner.Run(ctx, params); err != nil {
		return fmt.Errorf("queued screening run: %w", err)
	}
	return nil
}

// HistorySyncJob replays queued universe backfills.
type HistorySyncJob struct {
	sync *HistorySync
}

var _ queue.Job = (*HistorySyncJob)(nil)

func NewHistorySyncJob(sync *HistorySync) *HistorySyncJob {
	return &HistorySyncJob{sync: sync}
}

func (j *HistorySyncJob) Name() string { return "history_sync" }
func (j *HistorySyncJob) Type() string { return "history.sync" }

func (j *HistorySyncJob) Handle(ctx context.Context, _ interface{}) error {
	if _, err := j.sync.Run(ctx); err != nil {
		return fmt.Errorf("queued history sync: %w", err)
	}
	return nil
}
