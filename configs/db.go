package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {

	// Migrate the schema
	db.AutoMigrate(
		&entity.Client{}, &entity.User{},
		&entity.Vendor{}, &entity.VendorProduct{}, &entity.PriceOverride{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.SubOrder{}, &entity.OrderItem{},
		&entity.AuditLog{},
	)
}
