package entity

import (
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusDraft      = "DRAFT"
	OrderStatusSubmitted  = "SUBMITTED"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusFulfilling = "FULFILLING"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

type Order struct {
	gorm.Model
	// HYD-<YYYYMMDD>-<4 หลัก>
	OrderNumber string `gorm:"uniqueIndex;not null" json:"orderNumber"`
	Status      string `gorm:"not null;default:SUBMITTED" json:"status"`

	// invariant: TotalCents = Σ SubOrders.SubTotalCents
	TotalCents int64 `json:"totalCents"`

	DeliveryAddress string   `json:"deliveryAddress"`
	DeliveryLat     *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     *float64 `json:"deliveryLng,omitempty"`

	ClientID uint   `json:"clientId"`
	Client   Client `json:"-"`

	UserID uint `json:"userId"`
	User   User `json:"-"` // preload เฉพาะตอนต้องการ user detail

	// preload แค่ตอน detail
	SubOrders []SubOrder `json:"-"`
}
