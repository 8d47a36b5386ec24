package entity

import (
	"gorm.io/gorm"
)

// Cart statuses
const (
	CartStatusActive = "ACTIVE"
)

// หนึ่ง client มี cart ACTIVE ได้ใบเดียว
type Cart struct {
	gorm.Model
	ClientID uint   `gorm:"uniqueIndex" json:"clientId"`
	Client   Client `json:"-"`

	Status string `gorm:"not null;default:ACTIVE" json:"status"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
