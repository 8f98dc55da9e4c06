package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/Cheruto/shulewear-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInsufficientStock = errors.New("insufficient stock")

// decrementStock performs the check-and-decrement as a single conditional
// update so two concurrent checkouts cannot both pass the quantity check and
// oversell the same row.
func decrementStock(tx *gorm.DB, category models.UniformCategory, itemID, quantity int) error {
	result := tx.Table(category.Table).
		Where("id = ? AND quantity >= ? AND deleted_at IS NULL", itemID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errInsufficientStock
	}
	return nil
}

func restoreStock(tx *gorm.DB, category models.UniformCategory, itemID, quantity int) error {
	return tx.Table(category.Table).
		Where("id = ? AND deleted_at IS NULL", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

// writeSale appends the ledger row for a completed order. The unique index
// on sales.order_id rejects a second row for the same order.
func writeSale(tx *gorm.DB, order models.Order, customerName string) error {
	sale := models.Sale{
		OrderID:      int(order.ID),
		ItemID:       order.ItemID,
		UserID:       order.UserID,
		UniformID:    order.UniformID,
		CustomerName: customerName,
		UniformType:  order.UniformType,
		Size:         order.Size,
		Quantity:     order.Quantity,
		TotalPrice:   order.TotalPrice,
		SaleDate:     time.Now(),
	}
	return tx.Create(&sale).Error
}

// CreateOrder handles storefront checkout: the stock decrement and the order
// insert commit together or not at all.
func CreateOrder(ctx *gin.Context) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orderInfo struct {
		Type           string `json:"type" binding:"required"`
		ItemID         int    `json:"itemId" binding:"required"`
		Quantity       int    `json:"quantity" binding:"required"`
		DeliveryOption string `json:"deliveryOption" binding:"required"`
		SchoolID       uint   `json:"schoolId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderInfo); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, ok := models.CategoryByName(orderInfo.Type)
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unknown uniform type")
		return
	}
	if orderInfo.Quantity <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "quantity must be greater than zero")
		return
	}
	deliveryFee, ok := models.DeliveryFees[orderInfo.DeliveryOption]
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unknown delivery option")
		return
	}

	var school models.School
	if err := initializers.DB.First(&school, orderInfo.SchoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "School not found")
		} else {
			log.Println("Database error fetching school:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	var item models.InventoryItem
	if err := initializers.DB.Table(category.Table).First(&item, orderInfo.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Inventory item not found")
		} else {
			log.Println("Database error fetching item:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := decrementStock(tx, category, orderInfo.ItemID, orderInfo.Quantity); err != nil {
		tx.Rollback()
		if errors.Is(err, errInsufficientStock) {
			sendErrorResponse(ctx, http.StatusConflict, "Not enough stock to fulfil this order")
		} else {
			log.Println("Error reserving stock:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	order := models.Order{
		UserID:            userId,
		ItemID:            orderInfo.ItemID,
		UniformID:         int(item.UniformID),
		UniformType:       category.Name,
		Size:              item.Size,
		Quantity:          orderInfo.Quantity,
		UnitPrice:         item.Price,
		DeliveryOption:    orderInfo.DeliveryOption,
		DeliveryFee:       deliveryFee,
		TotalPrice:        item.Price*float64(orderInfo.Quantity) + deliveryFee,
		OrderedSchoolName: school.Name,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		log.Println("Error creating order:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing order:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save order")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully.",
		"order":   order,
	})
}

// GetOrders lists all orders for the admin screen.
func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Model(&models.Order{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println("Database error fetching orders:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if status := ctx.Query("status"); status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// GetOrdersByCustomer lists a customer's own orders.
func GetOrdersByCustomer(ctx *gin.Context) {
	userId, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var orders []models.Order
	result := initializers.DB.
		Where("user_id = ?", userId).
		Order("created_at " + sortOrder).
		Find(&orders)
	if result.Error != nil {
		log.Println("Database error fetching customer orders:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	if err := initializers.DB.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error fetching order:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// sendOrderReceiptEmail mails the customer when their order completes.
// Failures are logged, never surfaced.
func sendOrderReceiptEmail(user models.User, order models.Order) {
	emailData := utils.EmailData{
		Name:    user.Username,
		Message: "Your order has been completed. Thank you for shopping with us!",
		Receipt: strconv.Itoa(int(order.ID)),
	}
	templatePath := filepath.Join("templates", "order_receipt.html")
	if err := utils.SendEmail(user.Email, "Order Completed", emailData, templatePath); err != nil {
		log.Println("Error sending order receipt email:", err)
	}
}

// UpdateOrderStatus moves a pending order to completed or cancelled.
// Completion writes exactly one Sale row; cancellation returns the reserved
// stock. Both transitions are terminal.
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if orderStatusData.Status != models.OrderStatusCompleted && orderStatusData.Status != models.OrderStatusCancelled {
		sendErrorResponse(ctx, http.StatusBadRequest, "Status must be completed or cancelled")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.First(&order, orderId).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error fetching order:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	if order.Status != models.OrderStatusPending {
		tx.Rollback()
		sendErrorResponse(ctx, http.StatusConflict, "Order is already "+order.Status)
		return
	}

	if err := tx.Model(&order).Update("status", orderStatusData.Status).Error; err != nil {
		tx.Rollback()
		log.Println("Error updating order status:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	var user models.User
	if err := tx.First(&user, order.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		log.Println("Database error fetching order user:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	switch orderStatusData.Status {
	case models.OrderStatusCompleted:
		if err := writeSale(tx, order, user.Fullname); err != nil {
			tx.Rollback()
			log.Println("Error writing sale record:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to record sale")
			return
		}
	case models.OrderStatusCancelled:
		category, ok := models.CategoryByName(order.UniformType)
		if !ok {
			tx.Rollback()
			sendErrorResponse(ctx, http.StatusInternalServerError, "Order references an unknown uniform type")
			return
		}
		if err := restoreStock(tx, category, order.ItemID, order.Quantity); err != nil {
			tx.Rollback()
			log.Println("Error restoring stock:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to restore stock")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing status update:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	if orderStatusData.Status == models.OrderStatusCompleted && user.Email != "" {
		sendOrderReceiptEmail(user, order)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

// DeleteOrder removes an order and its sale ledger row together.
func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	tx := initializers.DB.Begin()
	if err := tx.Where("order_id = ?", orderId).Delete(&models.Sale{}).Error; err != nil {
		tx.Rollback()
		log.Println("Error deleting sale record:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}

	result := tx.Delete(&models.Order{}, orderId)
	if result.Error != nil {
		tx.Rollback()
		log.Println("Error deleting order:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing order delete:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

// GetPendingOrderCount backs the admin dashboard badge.
func GetPendingOrderCount(ctx *gin.Context) {
	var count int64
	result := initializers.DB.
		Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&count)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to count pending orders")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"pendingOrderCount": count})
}
