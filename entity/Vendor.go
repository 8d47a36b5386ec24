package entity

import (
	"gorm.io/gorm"
)

// Vendor ผู้ขาย (อาหาร/เครื่องดื่ม/บริการ) ฝั่ง connected account
type Vendor struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`

	StripeAccountID string `gorm:"index" json:"-"`
	ChargesEnabled  bool   `json:"chargesEnabled"`
	PayoutsEnabled  bool   `json:"payoutsEnabled"`

	Products  []VendorProduct `json:"-"`
	SubOrders []SubOrder      `json:"-"`
}
