package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type VendorRepository struct{ DB *gorm.DB }

func NewVendorRepository(db *gorm.DB) *VendorRepository { return &VendorRepository{DB: db} }

// lookup จาก connected account id ของ processor (webhook account-updated)
func (r *VendorRepository) GetByStripeAccountID(acctID string) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := r.DB.Where("stripe_account_id = ?", acctID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VendorRepository) UpdateCapabilities(vendorID uint, chargesEnabled, payoutsEnabled bool) error {
	return r.DB.Model(&entity.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"charges_enabled": chargesEnabled,
			"payouts_enabled": payoutsEnabled,
		}).Error
}

// ---------------- Catalog ----------------

// tx-parameterized: ผู้เรียกที่อยู่ใน transaction ส่ง tx เข้ามาเพื่ออ่านบน
// connection เดียวกัน, นอก transaction ส่ง root DB
func (r *VendorRepository) GetProduct(tx *gorm.DB, productID uint) (*entity.VendorProduct, error) {
	var p entity.VendorProduct
	if err := tx.Preload("Vendor").First(&p, productID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// คืน nil, nil ถ้าไม่มี override สำหรับคู่ (client, product)
func (r *VendorRepository) GetPriceOverride(tx *gorm.DB, clientID, productID uint) (*entity.PriceOverride, error) {
	var po entity.PriceOverride
	err := tx.Where("client_id = ? AND vendor_product_id = ?", clientID, productID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}
