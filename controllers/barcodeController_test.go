package controllers

import (
	"net/http"
	"testing"

	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barcodeRouter() *gin.Engine {
	router := gin.New()
	router.GET("/admin/barcode/:code", authAs(1, models.RoleAdmin), LookupBarcode)
	return router
}

func TestLookupBarcodeFindsOwningCategory(t *testing.T) {
	db := setupTestDB(t)
	router := barcodeRouter()

	seedItem(t, db, mustCategory(t, "Shirt"), models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500, Barcode: "SHI1234567890",
	})
	seedItem(t, db, mustCategory(t, "Trouser"), models.InventoryItem{
		Size: "32", Color: "Grey", Quantity: 6, Price: 800, Barcode: "TROAB12CD34EF",
	})

	recorder := jsonRequest(t, router, http.MethodGet, "/admin/barcode/TROAB12CD34EF", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "Trouser", body["type"])
	item := body["item"].(map[string]any)
	assert.Equal(t, "32", item["size"])
}

func TestLookupBarcodeIsCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	router := barcodeRouter()

	seedItem(t, db, mustCategory(t, "Shirt"), models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500, Barcode: "SHI1234567890",
	})

	recorder := jsonRequest(t, router, http.MethodGet, "/admin/barcode/shi1234567890", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestExactBarcodeMatchIgnoresCaseNearMisses(t *testing.T) {
	rows := []models.InventoryItem{
		{Size: "S", Barcode: "shi1234567890"},
		{Size: "M", Barcode: "SHI1234567890"},
	}

	item, found := exactBarcodeMatch(rows, "SHI1234567890")
	require.True(t, found, "the byte-exact row must win even when a collation near miss sorts first")
	assert.Equal(t, "M", item.Size)

	_, found = exactBarcodeMatch(rows, "Shi1234567890")
	assert.False(t, found)
}

func TestLegacyTableWithoutBarcodeColumn(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Table("shirts").Migrator().DropColumn(&models.InventoryItem{}, "barcode"))

	inventory := inventoryRouter()
	recorder := jsonRequest(t, inventory, http.MethodPost, "/admin/inventory", gin.H{
		"type": "Shirt", "size": "M", "color": "Blue", "quantity": 10, "price": 500,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var count int64
	require.NoError(t, db.Table("shirts").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Lookup skips the legacy table instead of erroring on the missing column
	seedItem(t, db, mustCategory(t, "Trouser"), models.InventoryItem{
		Size: "32", Color: "Grey", Quantity: 6, Price: 800, Barcode: "TROAB12CD34EF",
	})
	barcode := barcodeRouter()
	recorder = jsonRequest(t, barcode, http.MethodGet, "/admin/barcode/TROAB12CD34EF", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "Trouser", body["type"])

	recorder = jsonRequest(t, barcode, http.MethodGet, "/admin/barcode/SHI0000000000", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestLookupBarcodeNotFound(t *testing.T) {
	setupTestDB(t)
	router := barcodeRouter()

	recorder := jsonRequest(t, router, http.MethodGet, "/admin/barcode/SWE0000000000", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	body := decodeBody(t, recorder)
	assert.NotEmpty(t, body["suggestions"])
}
