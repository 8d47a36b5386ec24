package entity

import (
	"time"

	"gorm.io/gorm"
)

// SubOrder statuses (อิสระจาก Order status)
const (
	SubOrderStatusPending    = "PENDING"
	SubOrderStatusSubmitted  = "SUBMITTED"
	SubOrderStatusConfirmed  = "CONFIRMED"
	SubOrderStatusFulfilling = "FULFILLING"
	SubOrderStatusReady      = "READY"
	SubOrderStatusDelivered  = "DELIVERED"
	SubOrderStatusCanceled   = "CANCELED"
)

// Payment statuses
const (
	PaymentStatusPending    = "PENDING"
	PaymentStatusProcessing = "PROCESSING"
	PaymentStatusSucceeded  = "SUCCEEDED"
	PaymentStatusFailed     = "FAILED"
)

type SubOrder struct {
	gorm.Model
	// <orderNumber>-V<2 หลัก> เรียงตามลำดับ vendor ที่เจอใน cart
	SubOrderNumber string `gorm:"uniqueIndex;not null" json:"subOrderNumber"`
	Status         string `gorm:"not null;default:PENDING" json:"status"`

	SubTotalCents int64 `json:"subTotalCents"`

	// VAT snapshot: ต้อง set ครบสามตัวหรือ null ทั้งสามตัว
	NetTotalCents   *int64 `json:"netTotalCents,omitempty"`
	VatTotalCents   *int64 `json:"vatTotalCents,omitempty"`
	GrossTotalCents *int64 `json:"grossTotalCents,omitempty"`

	HydraFeeCents *int64 `json:"hydraFeeCents,omitempty"`

	PaymentStatus       string `gorm:"not null;default:PENDING;index" json:"paymentStatus"`
	StripeChargeID      *string
	PaymentAttemptCount int        `json:"paymentAttemptCount"`
	AuthorizationExpiresAt *time.Time `json:"authorizationExpiresAt,omitempty"`
	// nil = ไม่ได้นัด auto-retry; ห้าม set พร้อม RequiresClientUpdate
	NextPaymentRetryAt      *time.Time `gorm:"index" json:"nextPaymentRetryAt,omitempty"`
	RequiresClientUpdate    bool       `json:"requiresClientUpdate"`
	PaymentLastErrorCode    string     `json:"paymentLastErrorCode,omitempty"`
	PaymentLastErrorMessage string     `json:"paymentLastErrorMessage,omitempty"`
	PaidAt                  *time.Time `json:"paidAt,omitempty"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	VendorID uint   `json:"vendorId"`
	Vendor   Vendor `json:"-"`

	Items []OrderItem `gorm:"foreignKey:SubOrderID" json:"-"`
}
