package repository

import (
	"context"
	"testing"

	"github.com/calzado-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func createCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Slug: slug, Name: slug, Active: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func createProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: categoryID,
		Name:       name,
		Brand:      "Andina",
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Active:     active,
		Features:   models.StringArray{"piel"},
	}
	if err := NewProductRepository(db).Create(context.Background(), product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
