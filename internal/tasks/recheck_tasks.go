package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storeflow/internal/models"
)

// StalePaymentSource lists payments stuck in pending past a cutoff.
type StalePaymentSource interface {
	StalePendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error)
}

// RecheckPendingArgs defines the arguments for the pending-payment recheck
// task.
type RecheckPendingArgs struct {
	OlderThanMinutes int `json:"older_than_minutes"`
	Limit            int `json:"limit"`
}

// RecheckPendingTaskDef re-derives the status of payments stuck in pending,
// running each order through the same poll pipeline the client-facing
// handler uses. Missed webhook deliveries self-heal here; the pipeline's
// own idempotency check keeps the replay safe.
type RecheckPendingTaskDef struct{}

func (t *RecheckPendingTaskDef) TaskID() string {
	return "recheck_pending_payments"
}

// CreateTask builds the recurring task record with the given RRULE interval.
func (t *RecheckPendingTaskDef) CreateTask(args RecheckPendingArgs, recurringInterval string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), &recurringInterval, models.ScheduledTaskTypeRecurring, 1)
}

func (t *RecheckPendingTaskDef) HandleExecution(ctx context.Context, deps Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}
	var args RecheckPendingArgs
	if err := json.Unmarshal(argsBytes, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if args.OlderThanMinutes <= 0 {
		args.OlderThanMinutes = 15
	}
	if args.Limit <= 0 {
		args.Limit = 100
	}

	cutoff := time.Now().Add(-time.Duration(args.OlderThanMinutes) * time.Minute)

	payments, err := deps.Payments.StalePendingPayments(ctx, cutoff, args.Limit)
	if err != nil {
		return nil, err
	}

	checked := 0
	transitioned := 0
	for _, payment := range payments {
		if ctx.Err() != nil {
			break
		}
		status, pollErr := deps.Recon.PollOrderStatus(ctx, payment.OrderID)
		if pollErr != nil {
			deps.Logger.Warnw("recheck poll failed", "order_id", payment.OrderID, "error", pollErr)
			continue
		}
		checked++
		if status != models.PaymentStatusPending {
			transitioned++
		}
	}

	return map[string]interface{}{
		"stale":        len(payments),
		"checked":      checked,
		"transitioned": transitioned,
	}, nil
}

// RecheckPendingTask is the singleton instance of RecheckPendingTaskDef
var RecheckPendingTask = &RecheckPendingTaskDef{}
