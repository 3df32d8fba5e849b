package repositories

import (
	"time"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/pkg/orm"
)

// CatalogRepository handles database operations for categories and
// products. Public listings are cached briefly; writes bust the cache.
type CatalogRepository struct{}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

const (
	categoriesCacheKey = "catalog:categories"
	catalogCacheTTL    = 5 * time.Minute
)

// Categories returns every category, served from cache when warm.
func (r *CatalogRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).
		Order("name asc").
		Cache(categoriesCacheKey, catalogCacheTTL, &categories)
	return categories, err
}

// CategoryByID loads one category with its products.
func (r *CatalogRepository) CategoryByID(id uint) (models.Category, error) {
	var category models.Category
	err := orm.DB().Model(&models.Category{}).
		Preload("Products").
		Where("id = ?", id).
		First(&category)
	return category, err
}

// CreateCategory persists a new category and busts the listing cache.
func (r *CatalogRepository) CreateCategory(c *models.Category) error {
	if err := orm.DB().Create(c); err != nil {
		return err
	}
	r.bust()
	return nil
}

// UpdateCategory persists changes to a category.
func (r *CatalogRepository) UpdateCategory(c *models.Category) error {
	if err := orm.DB().Save(c); err != nil {
		return err
	}
	r.bust()
	return nil
}

// DeleteCategory removes a category.
func (r *CatalogRepository) DeleteCategory(c *models.Category) error {
	if err := orm.DB().Delete(c); err != nil {
		return err
	}
	r.bust()
	return nil
}

// Products returns one page of products, optionally scoped to a category.
func (r *CatalogRepository) Products(categoryID uint, page, limit int) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	pagination, err := q.Order("created_at desc").GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// ProductByID loads one product.
func (r *CatalogRepository) ProductByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// CreateProduct persists a new product.
func (r *CatalogRepository) CreateProduct(p *models.Product) error {
	return orm.DB().Create(p)
}

// UpdateProduct persists changes to a product.
func (r *CatalogRepository) UpdateProduct(p *models.Product) error {
	return orm.DB().Save(p)
}

// DeleteProduct removes a product.
func (r *CatalogRepository) DeleteProduct(p *models.Product) error {
	return orm.DB().Delete(p)
}

func (r *CatalogRepository) bust() {
	orm.Forget(categoriesCacheKey)
}
