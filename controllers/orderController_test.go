package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func orderRouter() *gin.Engine {
	router := gin.New()
	customer := router.Group("", authAs(7, models.RoleCustomer))
	customer.POST("/orders", CreateOrder)
	customer.GET("/orders/:orderId", GetOrderById)
	customer.GET("/users/:userId/orders", GetOrdersByCustomer)

	admin := router.Group("/admin", authAs(1, models.RoleAdmin))
	admin.GET("/orders", GetOrders)
	admin.PATCH("/orders/:orderId/status", UpdateOrderStatus)
	admin.DELETE("/orders/:orderId", DeleteOrder)
	return router
}

func seedCheckoutFixtures(t *testing.T, db *gorm.DB) (models.School, models.InventoryItem) {
	t.Helper()
	school := models.School{Name: "Hilltop Academy"}
	require.NoError(t, db.Create(&school).Error)
	item := seedItem(t, db, mustCategory(t, "Shirt"), models.InventoryItem{
		Size: "M", Color: "Blue", Quantity: 10, Price: 500,
	})
	return school, item
}

func TestCheckoutDecrementsStockWithOrder(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	recorder := jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Shirt", "itemId": item.ID, "quantity": 3,
		"deliveryOption": "Home Delivery", "schoolId": school.ID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	remaining := fetchItem(t, db, mustCategory(t, "Shirt"), item.ID)
	assert.Equal(t, 7, remaining.Quantity)

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 1500.0+200.0, order.TotalPrice)
	assert.Equal(t, 200.0, order.DeliveryFee)
	assert.Equal(t, "Hilltop Academy", order.OrderedSchoolName)
	assert.Equal(t, 7, order.UserID)
	assert.Equal(t, "M", order.Size)
}

func TestCheckoutInsufficientStockLeavesNothingBehind(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	recorder := jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Shirt", "itemId": item.ID, "quantity": 11,
		"deliveryOption": "Pickup", "schoolId": school.ID,
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	remaining := fetchItem(t, db, mustCategory(t, "Shirt"), item.ID)
	assert.Equal(t, 10, remaining.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutValidation(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	recorder := jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Shirt", "itemId": item.ID, "quantity": 1,
		"deliveryOption": "Drone Delivery", "schoolId": school.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "unknown delivery option")

	recorder = jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Shirt", "itemId": item.ID, "quantity": 1,
		"deliveryOption": "Pickup", "schoolId": school.ID + 99,
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code, "unknown school")

	recorder = jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Gown", "itemId": item.ID, "quantity": 1,
		"deliveryOption": "Pickup", "schoolId": school.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "unknown uniform type")
}

func placeOrder(t *testing.T, router *gin.Engine, item models.InventoryItem, school models.School, quantity int) models.Order {
	t.Helper()
	recorder := jsonRequest(t, router, http.MethodPost, "/orders", gin.H{
		"type": "Shirt", "itemId": item.ID, "quantity": quantity,
		"deliveryOption": "Pickup", "schoolId": school.ID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var order models.Order
	require.NoError(t, initializers.DB.Last(&order).Error)
	return order
}

func TestCompleteOrderWritesExactlyOneSale(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	// Customer record without an email so no receipt mail is attempted
	customer := models.User{Fullname: "Jane Wanjiku", Username: "janew", Role: models.RoleCustomer}
	customer.ID = 7
	require.NoError(t, db.Create(&customer).Error)

	order := placeOrder(t, router, item, school, 3)

	recorder := jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var sales []models.Sale
	require.NoError(t, db.Find(&sales).Error)
	require.Len(t, sales, 1)
	assert.Equal(t, int(order.ID), sales[0].OrderID)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, 1500.0, sales[0].TotalPrice)
	assert.Equal(t, "Jane Wanjiku", sales[0].CustomerName)
	assert.Equal(t, "Shirt", sales[0].UniformType)

	// Re-completing must not create a second ledger row
	recorder = jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	require.NoError(t, db.Find(&sales).Error)
	assert.Len(t, sales, 1)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	order := placeOrder(t, router, item, school, 4)
	remaining := fetchItem(t, db, mustCategory(t, "Shirt"), item.ID)
	require.Equal(t, 6, remaining.Quantity)

	recorder := jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, recorder.Code)

	remaining = fetchItem(t, db, mustCategory(t, "Shirt"), item.ID)
	assert.Equal(t, 10, remaining.Quantity)

	var sales int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales, "cancellation never writes to the sale ledger")

	// Terminal: cannot complete a cancelled order
	recorder = jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestDeleteOrderRemovesItsSale(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)

	order := placeOrder(t, router, item, school, 2)
	recorder := jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = jsonRequest(t, router, http.MethodDelete, fmt.Sprintf("/admin/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var orders, sales int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, orders)
	assert.Zero(t, sales)
}

func TestGetOrdersClampsPagination(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)
	placeOrder(t, router, item, school, 1)

	recorder := jsonRequest(t, router, http.MethodGet, "/admin/orders?page=0&limit=0", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)

	orders := body["orders"].([]any)
	assert.Len(t, orders, 1)

	metadata := body["metadata"].(map[string]any)
	assert.EqualValues(t, 1, metadata["currentPage"])
	assert.EqualValues(t, 15, metadata["limit"])
	assert.Equal(t, false, metadata["hasNextPage"])
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()
	school, item := seedCheckoutFixtures(t, db)
	order := placeOrder(t, router, item, school, 1)

	recorder := jsonRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", order.ID), gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
