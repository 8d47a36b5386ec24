package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/repository"
)

// Pricer คือ pricing/VAT collaborator: ราคาต่อหน่วยแบบ effective
// (base / discount / override) + VAT rate ของสินค้า
// รับ tx เพื่อให้อ่าน catalog ใน transaction เดียวกับผู้เรียกได้
type Pricer interface {
	// unitGrossCents = ราคาขายต่อหน่วย (รวม VAT), vatRateBps nil = ไม่ตั้งค่า VAT
	EffectiveUnitPrice(tx *gorm.DB, clientID, vendorProductID uint) (unitGrossCents int64, vatRateBps *int, err error)
}

var ErrProductInactive = errors.New("product is not active")

// CatalogPricer อ่านจาก vendor catalog + price overrides
type CatalogPricer struct {
	Vendors *repository.VendorRepository
}

func NewCatalogPricer(vendors *repository.VendorRepository) *CatalogPricer {
	return &CatalogPricer{Vendors: vendors}
}

func (p *CatalogPricer) EffectiveUnitPrice(tx *gorm.DB, clientID, vendorProductID uint) (int64, *int, error) {
	prod, err := p.Vendors.GetProduct(tx, vendorProductID)
	if err != nil {
		return 0, nil, err
	}
	if !prod.Active {
		return 0, nil, ErrProductInactive
	}

	unit := prod.BasePriceCents
	po, err := p.Vendors.GetPriceOverride(tx, clientID, vendorProductID)
	if err != nil {
		return 0, nil, err
	}
	if po != nil {
		switch po.Mode {
		case entity.PriceModeOverride:
			unit = po.PriceCents
		case entity.PriceModeDiscount:
			discount, _ := ComputeFeeCents(unit, po.DiscountBps)
			unit -= discount
		}
	}
	if unit < 0 {
		unit = 0
	}
	return unit, prod.VatRateBps, nil
}

// SplitGrossByVatRate แยกยอด gross เป็น net + vat ตาม rate (bps)
// ปัด net แบบ half away from zero แล้วให้ vat = gross - net เพื่อให้ผลรวมตรงเสมอ
func SplitGrossByVatRate(grossCents int64, vatRateBps int) (netCents, vatCents int64) {
	if vatRateBps <= 0 {
		return grossCents, 0
	}
	den := int64(10000 + vatRateBps)
	netCents = (grossCents*10000 + den/2) / den
	vatCents = grossCents - netCents
	return netCents, vatCents
}
