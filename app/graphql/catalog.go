// Package graphql exposes a read-only catalogue query surface beside
// the REST API, for storefronts that want to shape their own payloads.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/repositories"
	gqlhttp "github.com/shashiranjanraj/villageangel/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(models.Product).ID), nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"stock":       &graphql.Field{Type: graphql.Int},
		"images": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				prod := p.Source.(models.Product)
				return prod.Images(), nil
			},
		},
		"sizes": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				prod := p.Source.(models.Product)
				return prod.Sizes(), nil
			},
		},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(models.Category).ID), nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.String},
		"products": &graphql.Field{
			Type: graphql.NewList(productType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				cat := p.Source.(models.Category)
				if len(cat.Products) > 0 {
					return cat.Products, nil
				}
				repo := repositories.NewCatalogRepository()
				products, _, err := repo.Products(cat.ID, 1, 100)
				return products, err
			},
		},
	},
})

// NewCatalogSchema builds the read-only storefront query schema.
func NewCatalogSchema() (graphql.Schema, error) {
	repo := repositories.NewCatalogRepository()

	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return repo.Categories()
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return repo.CategoryByID(uint(id))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					categoryID, _ := p.Args["categoryId"].(int)
					products, _, err := repo.Products(uint(categoryID), 1, 100)
					return products, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return repo.ProductByID(uint(id))
				},
			},
		},
	})

	return gqlhttp.NewSchema(root)
}
