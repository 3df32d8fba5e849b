package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/migration"
)

func init() {
	migration.Register("0001_create_storefront_tables", &createStorefrontTables{})
}

// createStorefrontTables creates every table the storefront needs.
type createStorefrontTables struct{}

func (m *createStorefrontTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func (m *createStorefrontTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.OrderItem{},
		&models.Order{},
		&models.CartItem{},
		&models.Cart{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	)
}
