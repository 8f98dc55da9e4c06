package models

import (
	"strings"

	"gorm.io/gorm"
)

// UniformCategory describes one of the fixed uniform categories: the variant
// table that backs it and the prefix used when generating barcodes for it.
type UniformCategory struct {
	Name          string `json:"name"`
	Table         string `json:"-"`
	BarcodePrefix string `json:"-"`
}

// UniformCategories is the full set of categories the shop stocks, in the
// order listings are rendered.
var UniformCategories = []UniformCategory{
	{Name: "Sweater", Table: "sweaters", BarcodePrefix: "SWE"},
	{Name: "Shirt", Table: "shirts", BarcodePrefix: "SHI"},
	{Name: "Dress", Table: "dresses", BarcodePrefix: "DRE"},
	{Name: "Shorts", Table: "shorts", BarcodePrefix: "SHO"},
	{Name: "Trouser", Table: "trousers", BarcodePrefix: "TRO"},
	{Name: "Socks", Table: "socks", BarcodePrefix: "SOC"},
	{Name: "Skirt", Table: "skirts", BarcodePrefix: "SKI"},
	{Name: "Jamper", Table: "jampers", BarcodePrefix: "JAM"},
	{Name: "Tracksuit", Table: "tracksuits", BarcodePrefix: "TRA"},
	{Name: "Gameshort", Table: "gameshorts", BarcodePrefix: "GAM"},
	{Name: "Tshirt", Table: "tshirts", BarcodePrefix: "TSH"},
	{Name: "Wrapskirt", Table: "wrapskirts", BarcodePrefix: "WRA"},
}

// CategoryByName resolves a category from its display name.
func CategoryByName(name string) (UniformCategory, bool) {
	for _, category := range UniformCategories {
		if strings.EqualFold(category.Name, name) {
			return category, true
		}
	}
	return UniformCategory{}, false
}

// Uniform is the parent record shared by all size variants of the same
// type/color/school combination.
type Uniform struct {
	gorm.Model
	Type     string `json:"type"`
	Color    string `json:"color"`
	SchoolID *uint  `json:"schoolId"`
}

// InventoryItem is one purchasable variant. It has no fixed table; every
// query against it goes through DB.Table(category.Table).
type InventoryItem struct {
	gorm.Model
	UniformID uint    `json:"uniformId"`
	Size      string  `json:"size"`
	Quality   string  `json:"quality"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	SchoolID  *uint   `json:"schoolId"`
	Barcode   string  `json:"barcode"`
}

// TaggedInventoryItem is an inventory row annotated with the category it was
// read from, used by cross-category listings and barcode lookups.
type TaggedInventoryItem struct {
	InventoryItem
	Type string `json:"type"`
}

type UniformImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	UniformID int    `json:"uniformId" binding:"required"`
}
