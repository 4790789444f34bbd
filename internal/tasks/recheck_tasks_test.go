package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"storeflow/internal/models"
)

type fakePaymentSource struct {
	payments []models.Payment
	gotOlder time.Time
	gotLimit int
}

func (f *fakePaymentSource) StalePendingPayments(_ context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	f.gotOlder = olderThan
	f.gotLimit = limit
	return f.payments, nil
}

type fakeRechecker struct {
	statuses map[uint]models.PaymentStatus
	errs     map[uint]error
	calls    int
}

func (f *fakeRechecker) PollOrderStatus(_ context.Context, orderID uint) (models.PaymentStatus, error) {
	f.calls++
	if err := f.errs[orderID]; err != nil {
		return "", err
	}
	return f.statuses[orderID], nil
}

func stalePayment(orderID uint) models.Payment {
	return models.Payment{OrderID: orderID, Status: models.PaymentStatusPending}
}

func TestRecheckPendingCountsTransitions(t *testing.T) {
	source := &fakePaymentSource{payments: []models.Payment{stalePayment(1), stalePayment(2), stalePayment(3)}}
	recheck := &fakeRechecker{
		statuses: map[uint]models.PaymentStatus{1: models.PaymentStatusPaid, 2: models.PaymentStatusPending},
		errs:     map[uint]error{3: errors.New("gateway timeout")},
	}
	deps := Deps{Payments: source, Recon: recheck, Logger: zap.NewNop().Sugar()}

	result, err := RecheckPendingTask.HandleExecution(context.Background(), deps, models.ScheduledTask{})
	if err != nil {
		t.Fatalf("HandleExecution returned error: %v", err)
	}

	if recheck.calls != 3 {
		t.Errorf("poll calls = %d; want 3", recheck.calls)
	}
	if result["stale"] != 3 {
		t.Errorf("stale = %v; want 3", result["stale"])
	}
	if result["checked"] != 2 {
		t.Errorf("checked = %v; want 2, a failed poll is skipped", result["checked"])
	}
	if result["transitioned"] != 1 {
		t.Errorf("transitioned = %v; want 1", result["transitioned"])
	}
}

func TestRecheckPendingAppliesArgDefaults(t *testing.T) {
	source := &fakePaymentSource{}
	deps := Deps{Payments: source, Recon: &fakeRechecker{}, Logger: zap.NewNop().Sugar()}

	if _, err := RecheckPendingTask.HandleExecution(context.Background(), deps, models.ScheduledTask{}); err != nil {
		t.Fatalf("HandleExecution returned error: %v", err)
	}

	if source.gotLimit != 100 {
		t.Errorf("limit = %d; want default 100", source.gotLimit)
	}
	wantCutoff := time.Now().Add(-15 * time.Minute)
	if diff := source.gotOlder.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v; want about 15 minutes ago", source.gotOlder)
	}
}

func TestRecheckPendingHonorsExplicitArgs(t *testing.T) {
	source := &fakePaymentSource{}
	deps := Deps{Payments: source, Recon: &fakeRechecker{}, Logger: zap.NewNop().Sugar()}
	task := models.ScheduledTask{Arguments: map[string]interface{}{
		"older_than_minutes": 60,
		"limit":              5,
	}}

	if _, err := RecheckPendingTask.HandleExecution(context.Background(), deps, task); err != nil {
		t.Fatalf("HandleExecution returned error: %v", err)
	}

	if source.gotLimit != 5 {
		t.Errorf("limit = %d; want 5", source.gotLimit)
	}
	wantCutoff := time.Now().Add(-60 * time.Minute)
	if diff := source.gotOlder.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v; want about 60 minutes ago", source.gotOlder)
	}
}
