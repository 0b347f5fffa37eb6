package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every task runs on.
	QueueDefault = "default"
	// TaskLedgerWarmup reloads a party's cached ledger rows after a write.
	TaskLedgerWarmup = "ledger:warmup"
	// TaskIdempotencyCleanup purges expired idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"

	warmupUniqueTTL = 30 * time.Second
)

// LedgerWarmupPayload identifies the party to warm.
type LedgerWarmupPayload struct {
	PartyID int64 `json:"party_id"`
}

// NewLedgerWarmupTask builds a warmup task for partyID.
func NewLedgerWarmupTask(partyID int64) (*asynq.Task, error) {
	data, err := json.Marshal(LedgerWarmupPayload{PartyID: partyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Unique(warmupUniqueTTL)), nil
}

// IdempotencyCleanupPayload sets how long keys are retained.
type IdempotencyCleanupPayload struct {
	RetentionSeconds int64 `json:"retention_seconds"`
}

// NewIdempotencyCleanupTask builds the periodic cleanup task.
func NewIdempotencyCleanupTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(IdempotencyCleanupPayload{RetentionSeconds: int64(retention / time.Second)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data, asynq.Queue(QueueDefault)), nil
}
