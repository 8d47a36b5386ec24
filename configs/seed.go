package configs

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/HydraItalia/hydra-sub002/entity"
)

// สร้าง admin ครั้งแรก
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("⚠️ skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("ℹ️ admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      "admin",
	}
	return db.Create(&admin).Error
}

// Seed catalog ตัวอย่างสำหรับ dev (ข้ามใน production)
func SeedDemoCatalog(env string) error {
	if env == "production" {
		return nil
	}
	db := DB()

	var vendor entity.Vendor
	db.FirstOrCreate(&vendor, entity.Vendor{Name: "Demo Beverage Co"})
	vat := 1000
	db.FirstOrCreate(&entity.VendorProduct{}, entity.VendorProduct{
		Name: "Sparkling Water 12x", BasePriceCents: 450, VatRateBps: &vat, VendorID: vendor.ID, Active: true,
	})

	var vendor2 entity.Vendor
	db.FirstOrCreate(&vendor2, entity.Vendor{Name: "Demo Produce Srl"})
	db.FirstOrCreate(&entity.VendorProduct{}, entity.VendorProduct{
		Name: "Tomato Crate 10kg", BasePriceCents: 900, VatRateBps: &vat, VendorID: vendor2.ID, Active: true,
	})

	return nil
}
