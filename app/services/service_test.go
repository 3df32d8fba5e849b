package services_test

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/database"
)

// setupDB points the shared handle at a throwaway in-memory database so
// the services under test run against real SQL.
func setupDB(t *testing.T) {
	t.Helper()

	// A named shared in-memory database: gorm's pool opens several
	// connections, and an anonymous :memory: DSN would give each its own
	// empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
}

func seedUser(t *testing.T, suffix string, verified bool) models.User {
	t.Helper()

	user := models.User{
		FullName:    "Asha Verma",
		UserName:    "asha" + suffix,
		Email:       "asha" + suffix + "@example.com",
		Phone:       "90000000" + suffix,
		Password:    "hash",
		Address:     "12 MG Road",
		Role:        models.RoleUser,
		KYCVerified: verified,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, price float64) models.Product {
	t.Helper()

	category := models.Category{Name: "Sarees-" + t.Name()}
	if err := database.DB.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := models.Product{
		Name:       "Silk Saree",
		Price:      price,
		Stock:      10,
		CategoryID: category.ID,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
