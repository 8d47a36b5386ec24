package services

import (
	"context"
	"testing"
	"time"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
	"github.com/HydraItalia/hydra-sub002/repository"
)

func (f *fixture) seedOrderWithSub(t *testing.T, orderStatus string, mut func(*entity.SubOrder)) (*entity.Order, *entity.SubOrder) {
	t.Helper()
	o := entity.Order{
		OrderNumber: "HYD-20260301-0001",
		Status:      orderStatus,
		TotalCents:  900,
		ClientID:    f.client.ID,
		UserID:      f.user.ID,
	}
	if err := f.db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	sub := entity.SubOrder{
		SubOrderNumber: o.OrderNumber + "-V01",
		Status:         entity.SubOrderStatusPending,
		SubTotalCents:  900,
		PaymentStatus:  entity.PaymentStatusPending,
		OrderID:        o.ID,
		VendorID:       1,
	}
	if mut != nil {
		mut(&sub)
	}
	if err := f.db.Create(&sub).Error; err != nil {
		t.Fatalf("seed sub order: %v", err)
	}
	return &o, &sub
}

func (f *fixture) reloadSub(t *testing.T, id uint) *entity.SubOrder {
	t.Helper()
	var s entity.SubOrder
	if err := f.db.First(&s, id).Error; err != nil {
		t.Fatalf("reload sub: %v", err)
	}
	return &s
}

func TestStartAuthorizationSuccess(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, nil)

	proc := &fakeProcessor{authorizeResults: []*ProcessorResult{{Success: true, ChargeID: "ch_123"}}}
	svc := f.paymentService(t, proc)

	out, err := svc.StartAuthorization(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("StartAuthorization: %v", err)
	}
	if !out.Success || out.Action != ActionAuthorize {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	got := f.reloadSub(t, sub.ID)
	if got.PaymentStatus != entity.PaymentStatusProcessing {
		t.Fatalf("payment status = %s, want PROCESSING", got.PaymentStatus)
	}
	if got.StripeChargeID == nil || *got.StripeChargeID != "ch_123" {
		t.Fatalf("charge id = %v", got.StripeChargeID)
	}
	if got.AuthorizationExpiresAt == nil {
		t.Fatal("authorization expiry not set")
	}
	wantExp := time.Now().Add(AuthorizationWindow)
	if d := got.AuthorizationExpiresAt.Sub(wantExp); d > time.Minute || d < -time.Minute {
		t.Fatalf("authorization expiry %v not ~7d out", got.AuthorizationExpiresAt)
	}
}

func TestStartAuthorizationSkipsCanceledOrder(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusCanceled, nil)

	proc := &fakeProcessor{}
	svc := f.paymentService(t, proc)

	out, err := svc.StartAuthorization(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("StartAuthorization: %v", err)
	}
	if out.Action != ActionSkip {
		t.Fatalf("expected skip, got %+v", out)
	}
	if proc.authorizeCalls != 0 {
		t.Fatal("processor must not be called for canceled orders")
	}
}

func TestAuthorizationRetryableFailureSchedulesRetry(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, nil)

	proc := &fakeProcessor{authorizeResults: []*ProcessorResult{
		{Success: false, ErrorCode: "processing_error", ErrorMessage: "issuer timeout"},
	}}
	svc := f.paymentService(t, proc)

	out, err := svc.StartAuthorization(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("StartAuthorization: %v", err)
	}
	if out.Success {
		t.Fatal("expected failure outcome")
	}

	got := f.reloadSub(t, sub.ID)
	if got.PaymentStatus != entity.PaymentStatusFailed {
		t.Fatalf("payment status = %s, want FAILED", got.PaymentStatus)
	}
	if got.PaymentAttemptCount != 1 {
		t.Fatalf("attempts = %d, want 1", got.PaymentAttemptCount)
	}
	if got.NextPaymentRetryAt == nil {
		t.Fatal("retryable failure must schedule a retry")
	}
	if got.RequiresClientUpdate {
		t.Fatal("retryable failure must not flag client update")
	}
	if got.PaymentLastErrorCode != "processing_error" {
		t.Fatalf("error code = %q", got.PaymentLastErrorCode)
	}
}

func TestAuthorizationTerminalFailureFlagsClientUpdate(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, nil)

	proc := &fakeProcessor{authorizeResults: []*ProcessorResult{
		{Success: false, ErrorCode: "card_declined", ErrorMessage: "do not honor"},
	}}
	svc := f.paymentService(t, proc)

	if _, err := svc.StartAuthorization(context.Background(), sub.ID); err != nil {
		t.Fatalf("StartAuthorization: %v", err)
	}

	got := f.reloadSub(t, sub.ID)
	if !got.RequiresClientUpdate {
		t.Fatal("terminal failure must flag client update")
	}
	// invariant: flag ติด → ห้ามมีนัด retry
	if got.NextPaymentRetryAt != nil {
		t.Fatal("flagged sub-order must not have a scheduled retry")
	}
}

func TestTransportErrorIsRetryable(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, nil)

	proc := &fakeProcessor{transportErr: context.DeadlineExceeded}
	svc := f.paymentService(t, proc)

	out, err := svc.StartAuthorization(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("StartAuthorization: %v", err)
	}
	if out.ErrorCode != "network_error" {
		t.Fatalf("error code = %q, want network_error", out.ErrorCode)
	}

	got := f.reloadSub(t, sub.ID)
	if got.NextPaymentRetryAt == nil || got.RequiresClientUpdate {
		t.Fatalf("transport error must schedule retry: %+v", got)
	}
}

func TestCaptureSuccessSetsPaidAt(t *testing.T) {
	f := newFixture(t)
	future := time.Now().Add(48 * time.Hour)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusProcessing
		s.StripeChargeID = ptrStr("ch_123")
		s.AuthorizationExpiresAt = &future
	})

	svc := f.paymentService(t, &fakeProcessor{})
	out, err := svc.CaptureSubOrder(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("CaptureSubOrder: %v", err)
	}
	if !out.Success || out.Action != ActionCapture {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	got := f.reloadSub(t, sub.ID)
	if got.PaymentStatus != entity.PaymentStatusSucceeded {
		t.Fatalf("payment status = %s, want SUCCEEDED", got.PaymentStatus)
	}
	if got.PaidAt == nil {
		t.Fatal("paidAt not set on capture success")
	}
}

func TestCaptureExpiredAuthorizationNotAttempted(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusProcessing
		s.StripeChargeID = ptrStr("ch_123")
		s.AuthorizationExpiresAt = &past
	})

	proc := &fakeProcessor{}
	svc := f.paymentService(t, proc)

	out, err := svc.CaptureSubOrder(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("CaptureSubOrder: %v", err)
	}
	if out.Action != ActionFlagExpired || out.ErrorCode != ErrCodeChargeExpired {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if proc.captureCalls != 0 {
		t.Fatal("capture must not be attempted on an expired authorization")
	}

	got := f.reloadSub(t, sub.ID)
	if !got.RequiresClientUpdate || got.NextPaymentRetryAt != nil {
		t.Fatalf("expired charge must flag and unschedule: %+v", got)
	}
	if got.PaymentLastErrorCode != ErrCodeChargeExpired {
		t.Fatalf("error code = %q", got.PaymentLastErrorCode)
	}
}

func TestManualRetryRequiresFailedState(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, nil) // PENDING

	proc := &fakeProcessor{}
	svc := f.paymentService(t, proc)

	_, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID)
	var oe *opresult.Error
	if !opresult.As(err, &oe) || oe.Kind != opresult.KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if proc.authorizeCalls != 0 || proc.captureCalls != 0 {
		t.Fatal("manual retry on non-failed sub must not touch processor")
	}

	got := f.reloadSub(t, sub.ID)
	if got.PaymentStatus != entity.PaymentStatusPending || got.PaymentAttemptCount != 0 {
		t.Fatalf("state mutated: %+v", got)
	}
}

func TestManualRetryRefusesExpiredCharge(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
		s.StripeChargeID = ptrStr("ch_123")
		s.AuthorizationExpiresAt = &past
	})

	proc := &fakeProcessor{}
	svc := f.paymentService(t, proc)

	_, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID)
	var oe *opresult.Error
	if !opresult.As(err, &oe) || oe.Kind != opresult.KindConflict {
		t.Fatalf("expected conflict failure, got %v", err)
	}
	if proc.captureCalls != 0 {
		t.Fatal("capture must not be attempted after refusal")
	}
}

func TestManualRetryRejectsCanceledOrder(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusCanceled, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
	})

	svc := f.paymentService(t, &fakeProcessor{})
	_, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID)
	var oe *opresult.Error
	if !opresult.As(err, &oe) || oe.Kind != opresult.KindConflict {
		t.Fatalf("expected conflict failure, got %v", err)
	}
}

func TestManualRetryCapturesValidCharge(t *testing.T) {
	f := newFixture(t)
	future := time.Now().Add(48 * time.Hour)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
		s.StripeChargeID = ptrStr("ch_123")
		s.AuthorizationExpiresAt = &future
		s.PaymentAttemptCount = 1
	})

	proc := &fakeProcessor{}
	svc := f.paymentService(t, proc)

	out, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID)
	if err != nil {
		t.Fatalf("ManualRetry: %v", err)
	}
	if out.Action != ActionCapture || !out.Success {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if proc.captureCalls != 1 || proc.authorizeCalls != 0 {
		t.Fatalf("expected one capture call, got a=%d c=%d", proc.authorizeCalls, proc.captureCalls)
	}
}

func TestManualRetryExhaustionFlags(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
		s.PaymentAttemptCount = DefaultMaxRetryAttempts - 1
	})

	proc := &fakeProcessor{authorizeResults: []*ProcessorResult{
		{Success: false, ErrorCode: "processing_error"},
	}}
	svc := f.paymentService(t, proc)

	if _, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID); err != nil {
		t.Fatalf("ManualRetry: %v", err)
	}

	got := f.reloadSub(t, sub.ID)
	if got.PaymentAttemptCount != DefaultMaxRetryAttempts {
		t.Fatalf("attempts = %d, want %d", got.PaymentAttemptCount, DefaultMaxRetryAttempts)
	}
	// retryable code แต่ครบ max แล้ว → ต้องหยุดและ flag
	if !got.RequiresClientUpdate || got.NextPaymentRetryAt != nil {
		t.Fatalf("exhausted retries must flag: %+v", got)
	}
}

func TestMarkRequiresClientUpdateIdempotent(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
		s.NextPaymentRetryAt = ptrTime(time.Now().Add(time.Hour))
	})

	svc := f.paymentService(t, &fakeProcessor{})

	if err := svc.MarkRequiresClientUpdate(f.user.ID, sub.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	got := f.reloadSub(t, sub.ID)
	if !got.RequiresClientUpdate || got.NextPaymentRetryAt != nil {
		t.Fatalf("mark must flag and clear schedule: %+v", got)
	}
	updatedAt := got.UpdatedAt

	// ครั้งที่สอง: success โดยไม่เขียนอะไรเพิ่ม
	if err := svc.MarkRequiresClientUpdate(f.user.ID, sub.ID); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	got = f.reloadSub(t, sub.ID)
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Fatal("second mark must not mutate the row")
	}
}

func TestClearRequiresClientUpdateSchedulesImmediateRetry(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
		s.RequiresClientUpdate = true
	})

	svc := f.paymentService(t, &fakeProcessor{})
	before := time.Now()
	if err := svc.ClearRequiresClientUpdate(f.user.ID, sub.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got := f.reloadSub(t, sub.ID)
	if got.RequiresClientUpdate {
		t.Fatal("flag not cleared")
	}
	if got.NextPaymentRetryAt == nil {
		t.Fatal("clear must schedule an immediate retry")
	}
	if got.NextPaymentRetryAt.After(time.Now().Add(time.Second)) || got.NextPaymentRetryAt.Before(before.Add(-time.Second)) {
		t.Fatalf("nextPaymentRetryAt = %v, want ~now", got.NextPaymentRetryAt)
	}

	// clear ซ้ำบน sub ที่ไม่ติด flag = success no-op
	if err := svc.ClearRequiresClientUpdate(f.user.ID, sub.ID); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestManualRetryWritesAuditTrail(t *testing.T) {
	f := newFixture(t)
	_, sub := f.seedOrderWithSub(t, entity.OrderStatusSubmitted, func(s *entity.SubOrder) {
		s.PaymentStatus = entity.PaymentStatusFailed
	})

	svc := f.paymentService(t, &fakeProcessor{})
	if _, err := svc.ManualRetry(context.Background(), f.user.ID, sub.ID); err != nil {
		t.Fatalf("ManualRetry: %v", err)
	}

	rows, err := repository.NewAuditRepository(f.db).ListForEntity("SubOrder", sub.ID, 10)
	if err != nil {
		t.Fatalf("ListForEntity: %v", err)
	}
	found := false
	for _, r := range rows {
		if r.Action == "payment.manual_retry" {
			found = true
		}
	}
	if !found {
		t.Fatalf("audit trail missing manual retry entry: %+v", rows)
	}
}
