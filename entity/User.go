package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `gorm:"not null;default:client" json:"role"` // client / admin / agent

	ClientID *uint   `json:"clientId,omitempty"`
	Client   *Client `json:"-"`

	Orders []Order `json:"-"`
}
