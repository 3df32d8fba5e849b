package resources

import (
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/resource"
)

// ProductResource decodes the JSON-text image and size columns so the
// API serves real arrays.
type ProductResource struct{ resource.Base }

func (r *ProductResource) ToArray(v interface{}) resource.Map {
	switch p := v.(type) {
	case models.Product:
		return productMap(p)
	case *models.Product:
		return productMap(*p)
	}
	return resource.Map{}
}

func productMap(p models.Product) resource.Map {
	return resource.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"categoryId":  p.CategoryID,
		"images":      p.Images(),
		"sizes":       p.Sizes(),
		"colors":      p.Colors,
		"createdAt":   p.CreatedAt,
	}
}
