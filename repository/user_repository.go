package repository

import (
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type UserRepository struct{ DB *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{DB: db} }

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(userID uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
