package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity re-verifies the double-entry invariants.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskReportsWarmup prebuilds financial reports into the cache.
	TaskReportsWarmup = "reports:warmup"
)

// LedgerIntegrityPayload scopes an integrity scan to one tenant.
type LedgerIntegrityPayload struct {
	TenantID string `json:"tenant_id"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// ReportsWarmupPayload scopes a warmup run to one tenant.
type ReportsWarmupPayload struct {
	TenantID string `json:"tenant_id"`
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}
