package entity

import (
	"gorm.io/gorm"
)

// Client คือ ธุรกิจร้านอาหารที่สั่งซื้อ (buyer side)
type Client struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`

	// Stripe billing identity
	StripeCustomerID       string `gorm:"index" json:"-"`
	DefaultPaymentMethodID string `json:"-"`

	Users  []User  `json:"-"`
	Orders []Order `json:"-"`
	Cart   *Cart   `json:"-"`
}
