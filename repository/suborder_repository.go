package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type SubOrderRepository struct {
	DB *gorm.DB
}

func NewSubOrderRepository(db *gorm.DB) *SubOrderRepository {
	return &SubOrderRepository{DB: db}
}

func (r *SubOrderRepository) Get(subID uint) (*entity.SubOrder, error) {
	var s entity.SubOrder
	if err := r.DB.First(&s, subID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetWithOrder ใช้ก่อนทำ payment operation — ต้องเช็ค Order ไม่ถูก cancel
func (r *SubOrderRepository) GetWithOrder(subID uint) (*entity.SubOrder, error) {
	var s entity.SubOrder
	if err := r.DB.Preload("Order").First(&s, subID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ---------------- Retry sweep ----------------

// ListRetryCandidates: FAILED + ถึงเวลา + ยังไม่เกิน max + ไม่ติด flag
// เรียงเก่าสุดก่อนเพื่อ fairness, cap batch
func (r *SubOrderRepository) ListRetryCandidates(now time.Time, maxAttempts, limit int) ([]entity.SubOrder, error) {
	var subs []entity.SubOrder
	err := r.DB.
		Where("payment_status = ?", entity.PaymentStatusFailed).
		Where("next_payment_retry_at IS NOT NULL AND next_payment_retry_at <= ?", now).
		Where("payment_attempt_count < ?", maxAttempts).
		Where("requires_client_update = ?", false).
		Order("next_payment_retry_at ASC").
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

// GET /admin/suborders/failed
type FailedSubOrderRow struct {
	ID                   uint       `json:"id"`
	SubOrderNumber       string     `json:"subOrderNumber"`
	PaymentAttemptCount  int        `json:"paymentAttemptCount"`
	RequiresClientUpdate bool       `json:"requiresClientUpdate"`
	PaymentLastErrorCode string     `json:"paymentLastErrorCode"`
	NextPaymentRetryAt   *time.Time `json:"nextPaymentRetryAt,omitempty"`
}

func (r *SubOrderRepository) ListFailed(limit int) ([]FailedSubOrderRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []FailedSubOrderRow
	err := r.DB.Model(&entity.SubOrder{}).
		Select("id, sub_order_number, payment_attempt_count, requires_client_update, payment_last_error_code, next_payment_retry_at").
		Where("payment_status = ?", entity.PaymentStatusFailed).
		Order("updated_at DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

// ---------------- Payment state writes ----------------
// ทุกตัวเป็น guarded UPDATE: แพ้ race → RowsAffected 0 แล้วผู้เรียก no-op

// ClaimForDispatch จอง sub-order ก่อนยิง authorize/capture (FAILED → PENDING)
func (r *SubOrderRepository) ClaimForDispatch(subID uint) (bool, error) {
	res := r.DB.Model(&entity.SubOrder{}).
		Where("id = ? AND payment_status = ?", subID, entity.PaymentStatusFailed).
		Updates(map[string]any{
			"payment_status":         entity.PaymentStatusPending,
			"next_payment_retry_at":  nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *SubOrderRepository) RecordAuthorizationSuccess(subID uint, chargeID string, expiresAt time.Time) error {
	return r.DB.Model(&entity.SubOrder{}).
		Where("id = ?", subID).
		Updates(map[string]any{
			"stripe_charge_id":           chargeID,
			"authorization_expires_at":   expiresAt,
			"payment_status":             entity.PaymentStatusProcessing,
			"requires_client_update":     false,
			"next_payment_retry_at":      nil,
			"payment_last_error_code":    "",
			"payment_last_error_message": "",
		}).Error
}

func (r *SubOrderRepository) RecordCaptureSuccess(subID uint, paidAt time.Time) error {
	return r.DB.Model(&entity.SubOrder{}).
		Where("id = ?", subID).
		Updates(map[string]any{
			"payment_status":             entity.PaymentStatusSucceeded,
			"paid_at":                    paidAt,
			"requires_client_update":     false,
			"next_payment_retry_at":      nil,
			"payment_last_error_code":    "",
			"payment_last_error_message": "",
		}).Error
}

// RecordPaymentFailure บันทึกผลล้มเหลวจาก processor (+1 attempt)
// nextRetryAt nil + flag true = terminal / nextRetryAt set = จะ retry อัตโนมัติ
func (r *SubOrderRepository) RecordPaymentFailure(subID uint, code, msg string, nextRetryAt *time.Time, requiresClientUpdate bool) error {
	return r.DB.Model(&entity.SubOrder{}).
		Where("id = ?", subID).
		Updates(map[string]any{
			"payment_status":             entity.PaymentStatusFailed,
			"payment_attempt_count":      gorm.Expr("payment_attempt_count + 1"),
			"payment_last_error_code":    code,
			"payment_last_error_message": msg,
			"next_payment_retry_at":      nextRetryAt,
			"requires_client_update":     requiresClientUpdate,
		}).Error
}

// MarkChargeExpired: authorization หมดอายุ — ไม่ได้ยิง processor จึงไม่นับ attempt
func (r *SubOrderRepository) MarkChargeExpired(subID uint, code, msg string) error {
	return r.DB.Model(&entity.SubOrder{}).
		Where("id = ?", subID).
		Updates(map[string]any{
			"payment_status":             entity.PaymentStatusFailed,
			"payment_last_error_code":    code,
			"payment_last_error_message": msg,
			"next_payment_retry_at":      nil,
			"requires_client_update":     true,
		}).Error
}

// MarkRequiresClientUpdate: idempotent — flag แล้วซ้ำ → RowsAffected 0
func (r *SubOrderRepository) MarkRequiresClientUpdate(subID uint) (int64, error) {
	res := r.DB.Model(&entity.SubOrder{}).
		Where("id = ? AND requires_client_update = ?", subID, false).
		Updates(map[string]any{
			"requires_client_update": true,
			"next_payment_retry_at":  nil,
		})
	return res.RowsAffected, res.Error
}

// ClearRequiresClientUpdate: ปลด flag แล้วนัด retry ทันที
func (r *SubOrderRepository) ClearRequiresClientUpdate(subID uint, now time.Time) (int64, error) {
	res := r.DB.Model(&entity.SubOrder{}).
		Where("id = ? AND requires_client_update = ?", subID, true).
		Updates(map[string]any{
			"requires_client_update": false,
			"next_payment_retry_at":  now,
		})
	return res.RowsAffected, res.Error
}

func (r *SubOrderRepository) UpdateStatusGuard(tx *gorm.DB, subID uint, from, to string) (int64, error) {
	res := tx.Model(&entity.SubOrder{}).
		Where("id = ? AND status = ?", subID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
