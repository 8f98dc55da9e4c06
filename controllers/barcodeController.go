package controllers

import (
	"log"
	"net/http"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
)

// exactBarcodeMatch picks the byte-exact row out of the SQL hits. MySQL's
// default collations compare case-insensitively, so the where clause can
// return near misses alongside the real match.
func exactBarcodeMatch(rows []models.InventoryItem, code string) (models.InventoryItem, bool) {
	for _, row := range rows {
		if row.Barcode == code {
			return row, true
		}
	}
	return models.InventoryItem{}, false
}

// LookupBarcode resolves a scanned or typed code to the variant row that
// carries it. Every category table is checked in registry order; the match
// is exact and case-sensitive.
func LookupBarcode(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Barcode is required")
		return
	}

	for _, category := range models.UniformCategories {
		if !tableHasBarcode(initializers.DB, category.Table) {
			continue
		}

		var rows []models.InventoryItem
		if err := initializers.DB.Table(category.Table).Where("barcode = ?", code).Find(&rows).Error; err != nil {
			log.Println("Database error during barcode lookup:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		item, found := exactBarcodeMatch(rows, code)
		if !found {
			continue
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"type": category.Name,
			"item": item,
		})
		return
	}

	sendJSONResponse(ctx, http.StatusNotFound, gin.H{
		"message": "No item matches this barcode",
		"suggestions": []string{
			"Add the item to inventory with this barcode",
			"Edit an existing item and assign this barcode",
		},
	})
}
