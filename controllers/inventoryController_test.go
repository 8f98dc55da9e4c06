package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryRouter() *gin.Engine {
	router := gin.New()
	router.GET("/inventory", GetInventory)
	admin := router.Group("/admin", authAs(1, models.RoleAdmin))
	admin.POST("/inventory", CreateInventoryItem)
	admin.PUT("/inventory/:type/:id", UpdateInventoryItem)
	admin.DELETE("/inventory/:type/:id", DeleteInventoryItem)
	admin.GET("/inventory/low-stock", GetLowStock)
	return router
}

func TestCreateInventoryItemCreatesParentAndVariant(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	recorder := jsonRequest(t, router, http.MethodPost, "/admin/inventory", gin.H{
		"type": "Shirt", "size": "M", "color": "Blue", "quantity": 10, "price": 500,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var uniforms []models.Uniform
	require.NoError(t, db.Find(&uniforms).Error)
	require.Len(t, uniforms, 1)
	assert.Equal(t, "Shirt", uniforms[0].Type)

	var items []models.InventoryItem
	require.NoError(t, db.Table("shirts").Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, uniforms[0].ID, items[0].UniformID)
	assert.True(t, strings.HasPrefix(items[0].Barcode, "SHI"))
	assert.Len(t, items[0].Barcode, 13)
}

func TestCreateInventoryItemRejectsNonPositiveValues(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	cases := []gin.H{
		{"type": "Shirt", "size": "M", "color": "Blue", "quantity": -3, "price": 500},
		{"type": "Shirt", "size": "M", "color": "Blue", "quantity": 10, "price": -1},
	}
	for _, body := range cases {
		recorder := jsonRequest(t, router, http.MethodPost, "/admin/inventory", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	}

	var count int64
	require.NoError(t, db.Table("shirts").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Uniform{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateInventoryItemUnknownType(t *testing.T) {
	setupTestDB(t)
	router := inventoryRouter()

	recorder := jsonRequest(t, router, http.MethodPost, "/admin/inventory", gin.H{
		"type": "Blazer", "size": "M", "color": "Blue", "quantity": 10, "price": 500,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetInventoryTagsAndFilters(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	school := models.School{Name: "Hilltop Academy"}
	require.NoError(t, db.Create(&school).Error)
	schoolID := school.ID

	seedItem(t, db, mustCategory(t, "Shirt"), models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500, SchoolID: &schoolID,
	})
	seedItem(t, db, mustCategory(t, "Sweater"), models.InventoryItem{
		Size: "L", Color: "Green", Quantity: 4, Price: 900,
	})

	recorder := jsonRequest(t, router, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.EqualValues(t, 2, body["count"])

	recorder = jsonRequest(t, router, http.MethodGet, "/inventory?type=Shirt", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decodeBody(t, recorder)
	assert.EqualValues(t, 1, body["count"])
	items := body["items"].([]any)
	assert.Equal(t, "Shirt", items[0].(map[string]any)["type"])

	recorder = jsonRequest(t, router, http.MethodGet, "/inventory?schoolId=999", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decodeBody(t, recorder)
	assert.EqualValues(t, 0, body["count"])
}

func TestUpdateInventoryItemSyncsParent(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	category := mustCategory(t, "Shirt")
	item := seedItem(t, db, category, models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500,
	})

	recorder := jsonRequest(t, router, http.MethodPut, "/admin/inventory/Shirt/1", gin.H{
		"type": "Shirt", "size": "L", "color": "White", "quantity": 8, "price": 550,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	updated := fetchItem(t, db, category, item.ID)
	assert.Equal(t, "L", updated.Size)
	assert.Equal(t, "White", updated.Color)
	assert.Equal(t, 8, updated.Quantity)

	var uniform models.Uniform
	require.NoError(t, db.First(&uniform, item.UniformID).Error)
	assert.Equal(t, "White", uniform.Color)
}

func TestDeleteInventoryItemRemovesOrphanParent(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	category := mustCategory(t, "Shirt")
	item := seedItem(t, db, category, models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500,
	})

	recorder := jsonRequest(t, router, http.MethodDelete, "/admin/inventory/Shirt/1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var count int64
	require.NoError(t, db.Table(category.Table).Where("deleted_at IS NULL").Count(&count).Error)
	assert.Zero(t, count)

	var uniforms []models.Uniform
	require.NoError(t, db.Find(&uniforms).Error)
	assert.Empty(t, uniforms, "orphaned parent should be removed with its last variant")

	_ = item
}

func TestGetLowStock(t *testing.T) {
	db := setupTestDB(t)
	router := inventoryRouter()

	seedItem(t, db, mustCategory(t, "Shirt"), models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 2, Price: 500,
	})
	seedItem(t, db, mustCategory(t, "Sweater"), models.InventoryItem{
		Size: "L", Color: "Green", Quantity: 40, Price: 900,
	})

	recorder := jsonRequest(t, router, http.MethodGet, "/admin/inventory/low-stock?threshold=5", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].(map[string]any)["type"])
}
