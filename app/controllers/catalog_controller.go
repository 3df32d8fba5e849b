package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	"github.com/shashiranjanraj/villageangel/app/resources"
	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/resource"
	"github.com/shashiranjanraj/villageangel/pkg/response"
	"github.com/shashiranjanraj/villageangel/pkg/storage"
)

// CatalogController serves the public catalogue and its admin CRUD.
type CatalogController struct {
	repo *repositories.CatalogRepository
}

func NewCatalogController() *CatalogController {
	return &CatalogController{repo: repositories.NewCatalogRepository()}
}

// Categories lists every category.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.repo.Categories()
	if err != nil {
		response.Fail(w, "Could not load categories", http.StatusInternalServerError)
		return
	}
	response.Success(w, "", response.Payload{"categories": categories})
}

// Category returns one category with its products.
func (c *CatalogController) Category(w http.ResponseWriter, r *http.Request) {
	category, err := c.repo.CategoryByID(pathID(r, "id"))
	if err != nil {
		response.Fail(w, "Category not found", http.StatusNotFound)
		return
	}
	response.Success(w, "", response.Payload{"category": category})
}

type categoryInput struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Image       string `json:"image"       validate:"nullable,max=500"`
}

// CreateCategory adds a category (admin).
func (c *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := models.Category{Name: in.Name, Description: in.Description, Image: in.Image}
	if err := c.repo.CreateCategory(&category); err != nil {
		response.Fail(w, "Could not create category", http.StatusInternalServerError)
		return
	}
	response.Created(w, "Category created", response.Payload{"category": category})
}

// UpdateCategory edits a category (admin).
func (c *CatalogController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, err := c.repo.CategoryByID(pathID(r, "id"))
	if err != nil {
		response.Fail(w, "Category not found", http.StatusNotFound)
		return
	}

	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category.Name = in.Name
	category.Description = in.Description
	if in.Image != "" {
		category.Image = in.Image
	}
	if err := c.repo.UpdateCategory(&category); err != nil {
		response.Fail(w, "Could not update category", http.StatusInternalServerError)
		return
	}
	response.Success(w, "Category updated", response.Payload{"category": category})
}

// DeleteCategory removes a category (admin).
func (c *CatalogController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	category, err := c.repo.CategoryByID(pathID(r, "id"))
	if err != nil {
		response.Fail(w, "Category not found", http.StatusNotFound)
		return
	}
	if err := c.repo.DeleteCategory(&category); err != nil {
		response.Fail(w, "Could not delete category", http.StatusInternalServerError)
		return
	}
	response.Success(w, "Category deleted", nil)
}

// Products lists products, optionally filtered by ?categoryId= and paged
// with ?page= and ?limit=.
func (c *CatalogController) Products(w http.ResponseWriter, r *http.Request) {
	categoryID := uint(queryInt(r, "categoryId", 0))
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	products, pagination, err := c.repo.Products(categoryID, page, limit)
	if err != nil {
		response.Fail(w, "Could not load products", http.StatusInternalServerError)
		return
	}

	resource.CollectionOf(&resources.ProductResource{}, products).
		WithPagination(pagination).
		Respond(w)
}

// Product returns one product, addressed by path or by ?productId= on
// the original storefront's route.
func (c *CatalogController) Product(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	if id == 0 {
		id = uint(queryInt(r, "productId", 0))
	}

	product, err := c.repo.ProductByID(id)
	if err != nil {
		response.Fail(w, "Product not found", http.StatusNotFound)
		return
	}
	resource.New(&resources.ProductResource{}, product).Respond(w)
}

type productInput struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"nullable,max=5000"`
	Price       float64  `json:"price"       validate:"required,gt=0"`
	Stock       int      `json:"stock"       validate:"gte=0"`
	CategoryID  uint     `json:"categoryId"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Colors      string   `json:"colors"      validate:"nullable,max=500"`
}

// CreateProduct adds a product (admin). The category comes from the
// body, or from ?categoryId= on the original console's route.
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if in.CategoryID == 0 {
		in.CategoryID = uint(queryInt(r, "categoryId", 0))
	}
	if in.CategoryID == 0 {
		response.ValidationError(w, map[string]string{"categoryId": "The categoryId field is required."})
		return
	}

	if _, err := c.repo.CategoryByID(in.CategoryID); err != nil {
		response.Fail(w, "Category not found", http.StatusNotFound)
		return
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Colors:      in.Colors,
	}
	product.SetImages(in.Images)
	product.SetSizes(in.Sizes)

	if err := c.repo.CreateProduct(&product); err != nil {
		response.Fail(w, "Could not create product", http.StatusInternalServerError)
		return
	}
	response.Created(w, "Product created", response.Payload{
		"product": resource.New(&resources.ProductResource{}, product),
	})
}

// UpdateProduct edits a product (admin).
func (c *CatalogController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := c.repo.ProductByID(pathID(r, "id"))
	if err != nil {
		response.Fail(w, "Product not found", http.StatusNotFound)
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, err.Error(), http.StatusBadRequest)
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	if in.CategoryID != 0 {
		product.CategoryID = in.CategoryID
	}
	product.Colors = in.Colors
	product.SetImages(in.Images)
	product.SetSizes(in.Sizes)

	if err := c.repo.UpdateProduct(&product); err != nil {
		response.Fail(w, "Could not update product", http.StatusInternalServerError)
		return
	}
	response.Success(w, "Product updated", response.Payload{
		"product": resource.New(&resources.ProductResource{}, product),
	})
}

// DeleteProduct removes a product (admin).
func (c *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := c.repo.ProductByID(pathID(r, "id"))
	if err != nil {
		response.Fail(w, "Product not found", http.StatusNotFound)
		return
	}
	if err := c.repo.DeleteProduct(&product); err != nil {
		response.Fail(w, "Could not delete product", http.StatusInternalServerError)
		return
	}
	response.Success(w, "Product deleted", nil)
}

// UploadImage accepts a multipart "image" file, stores it on the default
// disk and returns its public URL for use in product/category payloads.
func (c *CatalogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Fail(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Fail(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		response.Fail(w, "Unsupported image type", http.StatusBadRequest)
		return
	}

	path := fmt.Sprintf("images/%d%s", time.Now().UnixNano(), ext)
	if err := storage.Put(r.Context(), path, io.LimitReader(file, 10<<20)); err != nil {
		response.Fail(w, "Could not store image", http.StatusInternalServerError)
		return
	}

	response.Created(w, "Image uploaded", response.Payload{
		"path": path,
		"url":  storage.URL(path),
	})
}
