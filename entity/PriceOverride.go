package entity

import (
	"gorm.io/gorm"
)

// Price modes ของ pricing collaborator
const (
	PriceModeOverride = "override" // ราคาตายตัวต่อ client
	PriceModeDiscount = "discount" // ลดจากราคา base เป็น bps
)

type PriceOverride struct {
	gorm.Model
	ClientID        uint          `gorm:"uniqueIndex:idx_client_product" json:"clientId"`
	Client          Client        `json:"-"`
	VendorProductID uint          `gorm:"uniqueIndex:idx_client_product" json:"vendorProductId"`
	VendorProduct   VendorProduct `json:"-"`

	Mode string `gorm:"not null" json:"mode"`
	// override: ราคาต่อหน่วย / discount: ส่วนลด bps
	PriceCents  int64 `json:"priceCents"`
	DiscountBps int   `json:"discountBps"`
}
