package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
	"github.com/HydraItalia/hydra-sub002/repository"
)

// Dispatch actions
const (
	ActionAuthorize   = "authorize"
	ActionCapture     = "capture"
	ActionSkip        = "skip"
	ActionFlagExpired = "flag_expired"
)

type PaymentService struct {
	DB      *gorm.DB
	SubRepo *repository.SubOrderRepository

	Processor PaymentProcessor
	Audit     AuditSink
	Events    EventPublisher
	Log       *zap.SugaredLogger

	MaxRetryAttempts int

	// override ได้ในเทส
	Now func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	subRepo *repository.SubOrderRepository,
	processor PaymentProcessor,
	audit AuditSink,
	events EventPublisher,
	log *zap.SugaredLogger,
	maxRetryAttempts int,
) *PaymentService {
	return &PaymentService{
		DB: db, SubRepo: subRepo,
		Processor: processor, Audit: audit, Events: events, Log: log,
		MaxRetryAttempts: maxRetryAttempts,
		Now:              time.Now,
	}
}

// DispatchOutcome ผลของ authorize/capture หนึ่งรอบ
type DispatchOutcome struct {
	Action       string `json:"action"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// StartAuthorization ยิง authorize ครั้งแรกหลัง checkout (sub ยัง PENDING ไม่มี charge)
func (s *PaymentService) StartAuthorization(ctx context.Context, subID uint) (*DispatchOutcome, error) {
	sub, err := s.SubRepo.GetWithOrder(subID)
	if err != nil {
		return nil, err
	}
	if sub.PaymentStatus != entity.PaymentStatusPending || sub.StripeChargeID != nil {
		return nil, opresult.New(opresult.KindConflict, "sub-order already has a payment in flight")
	}
	if sub.Order.Status == entity.OrderStatusCanceled {
		return &DispatchOutcome{Action: ActionSkip, Success: false, ErrorCode: "order_canceled"}, nil
	}
	return s.dispatch(ctx, sub)
}

// CaptureSubOrder ยิง capture เมื่อ sub-order confirmed/ready
func (s *PaymentService) CaptureSubOrder(ctx context.Context, subID uint) (*DispatchOutcome, error) {
	sub, err := s.SubRepo.GetWithOrder(subID)
	if err != nil {
		return nil, err
	}
	if sub.Order.Status == entity.OrderStatusCanceled {
		return nil, opresult.New(opresult.KindConflict, "order is canceled")
	}
	if sub.StripeChargeID == nil || *sub.StripeChargeID == "" {
		return nil, opresult.New(opresult.KindValidation, "sub-order has no authorization to capture")
	}
	if sub.PaymentStatus != entity.PaymentStatusProcessing {
		return nil, opresult.New(opresult.KindConflict, "sub-order payment is not awaiting capture")
	}
	if IsAuthorizationExpired(sub.AuthorizationExpiresAt, s.Now()) {
		return s.flagExpired(sub)
	}
	return s.dispatch(ctx, sub)
}

// ManualRetry: แอดมินกด retry เอง — ต้องอยู่สถานะ FAILED และ Order ไม่ถูก cancel
// เลือก authorize/capture ตาม charge ที่มีอยู่; ถ้า charge หมดอายุ → ปฏิเสธ ไม่ยิง
func (s *PaymentService) ManualRetry(ctx context.Context, actorID, subID uint) (*DispatchOutcome, error) {
	sub, err := s.SubRepo.GetWithOrder(subID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opresult.New(opresult.KindNotFound, "sub-order not found")
		}
		return nil, err
	}

	if sub.PaymentStatus != entity.PaymentStatusFailed {
		return nil, opresult.New(opresult.KindValidation, "sub-order payment is not in a failed state")
	}
	if sub.Order.Status == entity.OrderStatusCanceled {
		return nil, opresult.New(opresult.KindConflict, "order is canceled")
	}
	if sub.StripeChargeID != nil && *sub.StripeChargeID != "" &&
		IsAuthorizationExpired(sub.AuthorizationExpiresAt, s.Now()) {
		s.Audit.LogAction(actorID, "SubOrder", sub.ID, "payment.manual_retry_refused", map[string]any{
			"reason": ErrCodeChargeExpired,
		})
		return nil, opresult.New(opresult.KindConflict, "authorization expired; a new payment method is required")
	}

	claimed, err := s.SubRepo.ClaimForDispatch(sub.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, opresult.New(opresult.KindConflict, "sub-order is being processed elsewhere")
	}

	out, err := s.dispatch(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.Audit.LogAction(actorID, "SubOrder", sub.ID, "payment.manual_retry", out)
	return out, nil
}

// RetrySweepOne ประมวลผล candidate หนึ่งรายจาก sweep
func (s *PaymentService) RetrySweepOne(ctx context.Context, sub *entity.SubOrder) (*DispatchOutcome, error) {
	full, err := s.SubRepo.GetWithOrder(sub.ID)
	if err != nil {
		return nil, err
	}
	if full.Order.Status == entity.OrderStatusCanceled {
		s.Log.Infow("retry sweep skip: order canceled", "subOrderNumber", full.SubOrderNumber)
		return &DispatchOutcome{Action: ActionSkip, Success: false, ErrorCode: "order_canceled"}, nil
	}
	if full.StripeChargeID != nil && *full.StripeChargeID != "" &&
		IsAuthorizationExpired(full.AuthorizationExpiresAt, s.Now()) {
		return s.flagExpired(full)
	}

	claimed, err := s.SubRepo.ClaimForDispatch(full.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// sweep อื่นคว้าไปแล้ว
		return &DispatchOutcome{Action: ActionSkip, Success: false, ErrorCode: "already_claimed"}, nil
	}

	out, err := s.dispatch(ctx, full)
	if err != nil {
		return nil, err
	}
	s.Audit.LogSystemAction("SubOrder", full.ID, "payment.retry_sweep", out)
	return out, nil
}

// ----- Admin flag/unflag (idempotent) -----

func (s *PaymentService) MarkRequiresClientUpdate(actorID, subID uint) error {
	if _, err := s.SubRepo.Get(subID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return opresult.New(opresult.KindNotFound, "sub-order not found")
		}
		return err
	}
	affected, err := s.SubRepo.MarkRequiresClientUpdate(subID)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.Audit.LogAction(actorID, "SubOrder", subID, "payment.flag_client_update", nil)
	}
	// flag ซ้ำ = success โดยไม่เขียนอะไร
	return nil
}

func (s *PaymentService) ClearRequiresClientUpdate(actorID, subID uint) error {
	if _, err := s.SubRepo.Get(subID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return opresult.New(opresult.KindNotFound, "sub-order not found")
		}
		return err
	}
	now := s.Now()
	affected, err := s.SubRepo.ClearRequiresClientUpdate(subID, now)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.Audit.LogAction(actorID, "SubOrder", subID, "payment.clear_client_update", map[string]any{
			"nextPaymentRetryAt": now,
		})
	}
	return nil
}

// ----- internals -----

// dispatch เลือก authorize/capture ตาม charge แล้วเขียนผลกลับ DB
// เรียกหลังจาก claim สำเร็จ (หรือตอน initial ที่ยัง PENDING)
func (s *PaymentService) dispatch(ctx context.Context, sub *entity.SubOrder) (*DispatchOutcome, error) {
	now := s.Now()
	action := ActionAuthorize
	if sub.StripeChargeID != nil && *sub.StripeChargeID != "" {
		action = ActionCapture
	}

	key := uuid.NewString()
	var res *ProcessorResult
	var err error
	if action == ActionAuthorize {
		res, err = s.Processor.Authorize(ctx, sub, key)
	} else {
		res, err = s.Processor.Capture(ctx, sub, key)
	}
	if err != nil {
		// transport ล่ม = transient
		res = &ProcessorResult{Success: false, ErrorCode: "network_error", ErrorMessage: err.Error()}
	}

	out := &DispatchOutcome{Action: action, Success: res.Success, ErrorCode: res.ErrorCode, ErrorMessage: res.ErrorMessage}

	if res.Success {
		if action == ActionAuthorize {
			exp := now.Add(AuthorizationWindow)
			if err := s.SubRepo.RecordAuthorizationSuccess(sub.ID, res.ChargeID, exp); err != nil {
				return nil, err
			}
			s.publishState(sub, entity.PaymentStatusProcessing, "")
		} else {
			if err := s.SubRepo.RecordCaptureSuccess(sub.ID, now); err != nil {
				return nil, err
			}
			s.publishState(sub, entity.PaymentStatusSucceeded, "")
		}
		s.Log.Infow("payment dispatch ok", "subOrderNumber", sub.SubOrderNumber, "action", action)
		return out, nil
	}

	if err := s.recordFailure(sub, res.ErrorCode, res.ErrorMessage, now); err != nil {
		return nil, err
	}
	s.Log.Warnw("payment dispatch failed",
		"subOrderNumber", sub.SubOrderNumber, "action", action, "errorCode", res.ErrorCode)
	return out, nil
}

// recordFailure แตกกิ่งตาม classifier:
// retryable + ยังไม่ครบ max → นัดรอบถัดไป / ไม่งั้น → ติด flag รอคนจัดการ
func (s *PaymentService) recordFailure(sub *entity.SubOrder, code, msg string, now time.Time) error {
	attempts := sub.PaymentAttemptCount + 1
	retryable := IsRetryableErrorCode(code)

	var nextRetryAt *time.Time
	requiresClientUpdate := false
	if retryable && attempts < s.MaxRetryAttempts {
		t := NextRetryAt(now, attempts)
		nextRetryAt = &t
	} else {
		requiresClientUpdate = true
	}

	if err := s.SubRepo.RecordPaymentFailure(sub.ID, code, msg, nextRetryAt, requiresClientUpdate); err != nil {
		return err
	}
	s.publishState(sub, entity.PaymentStatusFailed, code)
	return nil
}

// flagExpired: authorization หมดอายุ — ห้าม capture, ต้อง authorize ใหม่เท่านั้น
func (s *PaymentService) flagExpired(sub *entity.SubOrder) (*DispatchOutcome, error) {
	if err := s.SubRepo.MarkChargeExpired(sub.ID, ErrCodeChargeExpired, "authorization expired before capture"); err != nil {
		return nil, err
	}
	s.Audit.LogSystemAction("SubOrder", sub.ID, "payment.charge_expired", nil)
	s.publishState(sub, entity.PaymentStatusFailed, ErrCodeChargeExpired)
	return &DispatchOutcome{Action: ActionFlagExpired, Success: false, ErrorCode: ErrCodeChargeExpired}, nil
}

func (s *PaymentService) publishState(sub *entity.SubOrder, to, code string) {
	s.Events.Publish(PaymentStateChanged{
		SubOrderID:     sub.ID,
		SubOrderNumber: sub.SubOrderNumber,
		From:           sub.PaymentStatus,
		To:             to,
		ErrorCode:      code,
	})
}
