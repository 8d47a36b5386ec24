package repository

import (
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type ClientRepository struct{ DB *gorm.DB }

func NewClientRepository(db *gorm.DB) *ClientRepository { return &ClientRepository{DB: db} }

func (r *ClientRepository) Get(clientID uint) (*entity.Client, error) {
	var c entity.Client
	if err := r.DB.First(&c, clientID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// lookup จาก customer id ของ processor (webhook setup-succeeded)
func (r *ClientRepository) GetByStripeCustomerID(cusID string) (*entity.Client, error) {
	var c entity.Client
	if err := r.DB.Where("stripe_customer_id = ?", cusID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) UpdateDefaultPaymentMethod(clientID uint, pmID string) error {
	return r.DB.Model(&entity.Client{}).
		Where("id = ?", clientID).
		Update("default_payment_method_id", pmID).Error
}
