package entity

import (
	"gorm.io/gorm"
)

type VendorProduct struct {
	gorm.Model
	Name           string `gorm:"not null" json:"name"`
	BasePriceCents int64  `json:"basePriceCents"`
	// nil = ร้านยังไม่ตั้งค่า VAT → ไม่ snapshot net/vat/gross
	VatRateBps *int `json:"vatRateBps,omitempty"`
	Active     bool `gorm:"default:true" json:"active"`

	VendorID uint   `json:"vendorId"`
	Vendor   Vendor `json:"-"`
}
