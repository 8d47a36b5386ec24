package entity

import (
	"gorm.io/gorm"
)

type CartItem struct {
	gorm.Model
	CartID uint `json:"cartId"`
	Cart   Cart `json:"-"`

	VendorProductID uint          `json:"vendorProductId"`
	VendorProduct   VendorProduct `json:"-"`

	Qty            int   `json:"qty"`
	UnitPriceCents int64 `json:"unitPriceCents"`
	LineTotalCents int64 `json:"lineTotalCents"`
}
