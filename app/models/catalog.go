package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text"                     json:"description"`
	Image       string    `gorm:"size:500"                      json:"image"`
	Products    []Product `gorm:"foreignKey:CategoryID"         json:"products,omitempty"`
}

// Product is a catalogue entry. Images and Sizes are stored as JSON text
// so the model works across every supported SQL driver.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text"               json:"description"`
	Price       float64 `gorm:"not null;default:0"      json:"price"`
	Stock       int     `gorm:"not null;default:0"      json:"stock"`
	CategoryID  uint    `gorm:"not null;index"          json:"categoryId"`
	ImagesJSON  string  `gorm:"column:images;type:text" json:"-"`
	SizesJSON   string  `gorm:"column:sizes;type:text"  json:"-"`
	Colors      string  `gorm:"size:500"                json:"colors"`
}

// Images decodes the stored image URL list.
func (p *Product) Images() []string { return decodeList(p.ImagesJSON) }

// SetImages encodes urls into the stored column.
func (p *Product) SetImages(urls []string) { p.ImagesJSON = encodeList(urls) }

// Sizes decodes the stored size list.
func (p *Product) Sizes() []string { return decodeList(p.SizesJSON) }

// SetSizes encodes sizes into the stored column.
func (p *Product) SetSizes(sizes []string) { p.SizesJSON = encodeList(sizes) }

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(raw)
}
