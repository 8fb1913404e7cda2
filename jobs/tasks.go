package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerWarmup rebuilds one customer's cached statement.
	TaskLedgerWarmup = "ledger:warmup"
	// TaskStockIntegrity scans every product for counter drift.
	TaskStockIntegrity = "stock:integrity"
)

// LedgerWarmupPayload names the customer whose statement should be rebuilt.
type LedgerWarmupPayload struct {
	CustomerID int64 `json:"customer_id"`
}

// NewLedgerWarmupTask constructs an Asynq task.
func NewLedgerWarmupTask(payload LedgerWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerWarmup, data), nil
}

// NewStockIntegrityTask constructs the nightly scan task.
func NewStockIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskStockIntegrity, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueLedgerWarmup queues a statement rebuild for one customer. Duplicate
// warmups within the dedup window collapse onto one run.
func (c *Client) EnqueueLedgerWarmup(ctx context.Context, customerID int64) error {
	task, err := NewLedgerWarmupTask(LedgerWarmupPayload{CustomerID: customerID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
