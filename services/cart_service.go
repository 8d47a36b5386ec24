package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
	"github.com/HydraItalia/hydra-sub002/repository"
)

type CartService struct {
	DB     *gorm.DB
	Repo   *repository.CartRepository
	Pricer Pricer
}

func NewCartService(db *gorm.DB, repo *repository.CartRepository, pricer Pricer) *CartService {
	return &CartService{DB: db, Repo: repo, Pricer: pricer}
}

type AddItemReq struct {
	VendorProductID uint `json:"vendorProductId" binding:"required"`
	Qty             int  `json:"qty" binding:"required,min=1"`
}

// AddItem snapshot ราคา effective ณ ตอนใส่ตะกร้า
func (s *CartService) AddItem(clientID uint, req *AddItemReq) (*entity.Cart, error) {
	unit, _, err := s.Pricer.EffectiveUnitPrice(s.DB, clientID, req.VendorProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opresult.New(opresult.KindNotFound, "product not found")
		}
		if errors.Is(err, ErrProductInactive) {
			return nil, opresult.New(opresult.KindValidation, "product is not active")
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(clientID)
	if err != nil {
		return nil, err
	}

	row := &entity.CartItem{
		VendorProductID: req.VendorProductID,
		Qty:             req.Qty,
		UnitPriceCents:  unit,
		LineTotalCents:  int64(req.Qty) * unit,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.UpsertItem(tx, cart.ID, row)
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetActiveCartWithItems(clientID)
}

func (s *CartService) GetCart(clientID uint) (*entity.Cart, error) {
	return s.Repo.GetActiveCartWithItems(clientID)
}

func (s *CartService) RemoveItem(clientID, itemID uint) error {
	return s.Repo.RemoveItem(clientID, itemID)
}
