package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vr-inventory/vr-inventory/internal/jobs"
)

// LedgerWarmer reloads the cached ledger rows of a party.
type LedgerWarmer interface {
	Warm(ctx context.Context, partyID int64) error
}

// LedgerWarmupJob repopulates a party's ledger cache after a write.
type LedgerWarmupJob struct {
	Warmer  LedgerWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewLedgerWarmupJob wires dependencies for the warmup handler.
func NewLedgerWarmupJob(warmer LedgerWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerWarmupJob {
	return &LedgerWarmupJob{Warmer: warmer, Logger: logger, Metrics: metrics, Timeout: 20 * time.Second}
}

// Handle processes TaskLedgerWarmup tasks.
func (j *LedgerWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Warmer == nil {
		return errors.New("ledger warmup: handler not configured")
	}
	var payload LedgerWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.PartyID <= 0 {
		return fmt.Errorf("ledger warmup: bad payload: %w", asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskLedgerWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("party_id", payload.PartyID))
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := j.Warmer.Warm(ctx, payload.PartyID); err != nil {
		logger.Error("warm party ledger", slog.Any("error", err))
		return err
	}
	logger.Info("warmed party ledger", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *LedgerWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerWarmup))
	}
	return slog.Default().With(slog.String("job", TaskLedgerWarmup))
}
