package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/token"
)

func init() {
	Register("admin", SeedAdmin)
	Register("catalog", SeedCatalog)
}

// SeedAdmin creates the initial admin account if none exists. The
// password comes from ADMIN_PASSWORD so a default never ships.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := token.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:    "Store Admin",
		UserName:    "admin",
		Email:       config.Get("ADMIN_EMAIL", "admin@villageangel.shop"),
		Phone:       "0000000000",
		Password:    hash,
		Role:        models.RoleAdmin,
		KYCVerified: true,
	}
	return db.Create(&admin).Error
}

// SeedCatalog inserts a starter category and product so a fresh install
// has something to show.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.Category{
		Name:        "Sarees",
		Description: "Handloom and designer sarees",
	}
	if err := db.Create(&category).Error; err != nil {
		return err
	}

	product := models.Product{
		Name:        "Banarasi Silk Saree",
		Description: "Handwoven Banarasi silk with zari border",
		Price:       4999,
		Stock:       25,
		CategoryID:  category.ID,
		Colors:      "red,gold",
	}
	product.SetSizes([]string{"free"})
	return db.Create(&product).Error
}
