package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// คืน Cart ACTIVE ของ client (ถ้าไม่มีก็คืน Cart ว่าง ๆ โดยไม่ error เพื่อให้ FE แสดงได้)
func (r *CartRepository) GetActiveCartWithItems(clientID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("client_id = ? AND status = ?", clientID, entity.CartStatusActive).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.VendorProduct").
		Preload("Items.VendorProduct.Vendor").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Cart{ClientID: clientID, Status: entity.CartStatusActive}, nil
	}
	return &c, err
}

// สร้างหรืออ่าน Cart ACTIVE ของ client
func (r *CartRepository) GetOrCreateCart(clientID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("client_id = ? AND status = ?", clientID, entity.CartStatusActive).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{ClientID: clientID, Status: entity.CartStatusActive}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	return &c, err
}

// เพิ่มหรือรวม line (สินค้าเดียวกัน → บวก qty)
func (r *CartRepository) UpsertItem(tx *gorm.DB, cartID uint, row *entity.CartItem) error {
	var exist entity.CartItem
	err := tx.Where("cart_id = ? AND vendor_product_id = ?", cartID, row.VendorProductID).
		First(&exist).Error
	if err == nil {
		exist.Qty += row.Qty
		exist.LineTotalCents = int64(exist.Qty) * exist.UnitPriceCents
		return tx.Save(&exist).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row.CartID = cartID
	return tx.Create(row).Error
}

func (r *CartRepository) RemoveItem(clientID, itemID uint) error {
	return r.DB.
		Where("id = ? AND cart_id IN (SELECT id FROM carts WHERE client_id = ?)", itemID, clientID).
		Delete(&entity.CartItem{}).Error
}

// ClearItems ลบ line ทั้งหมดของ cart (เรียกหลัง commit order — ไม่อยู่ใน tx เดียวกัน)
func (r *CartRepository) ClearItems(cartID uint) error {
	return r.DB.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}
