package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands OTP mail to the background worker.
type Dispatcher struct {
	client Enqueuer
	logger *slog.Logger
}

func NewDispatcher(client Enqueuer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

// DeliverOTP enqueues the code for delivery. The code expires long before a
// retried task would be useful, so retries are few and short.
func (d *Dispatcher) DeliverOTP(ctx context.Context, email, code string) error {
	task, err := NewOTPMailTask(OTPMailPayload{Email: email, Code: code})
	if err != nil {
		return fmt.Errorf("create otp task: %w", err)
	}

	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue("critical"),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue otp task: %w", err)
	}

	d.logger.Info("otp mail enqueued", "task_id", info.ID, "email", email)
	return nil
}
