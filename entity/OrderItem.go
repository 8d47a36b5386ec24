package entity

import (
	"gorm.io/gorm"
)

// OrderItem เก็บ snapshot ชื่อ/ราคา ณ ตอนสร้างออเดอร์ (immutable)
type OrderItem struct {
	gorm.Model
	ProductName    string `gorm:"not null" json:"productName"`
	VendorName     string `gorm:"not null" json:"vendorName"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`

	SubOrderID uint     `json:"subOrderId"`
	SubOrder   SubOrder `json:"-"`

	VendorProductID uint          `json:"vendorProductId"`
	VendorProduct   VendorProduct `json:"-"` // preload เฉพาะตอนต้องการ catalog detail
}
