package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgFailedToCreateCart = "failed to create cart"

func getOrCreateCart(userId int, kind string) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.
		Where(models.Cart{UserID: userId, Kind: kind}).
		FirstOrCreate(&cart).Error
	return cart, err
}

func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// addCartItem adds a variant to the user's cart of the given kind, merging
// with an existing line for the same variant.
func addCartItem(ctx *gin.Context, kind string) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input struct {
		Type     string `json:"type" binding:"required"`
		ItemID   int    `json:"itemId" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	category, ok := models.CategoryByName(input.Type)
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unknown uniform type")
		return
	}
	if input.Quantity <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "quantity must be greater than zero")
		return
	}

	var stockItem models.InventoryItem
	if err := initializers.DB.Table(category.Table).First(&stockItem, input.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Inventory item not found")
		} else {
			log.Println("Database error fetching item:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	cart, err := getOrCreateCart(userId, kind)
	if err != nil {
		log.Println("Error fetching cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToCreateCart)
		return
	}

	var existingItem models.CartItem
	err = initializers.DB.
		Where("cart_id = ? AND item_id = ? AND uniform_type = ?", cart.ID, input.ItemID, category.Name).
		First(&existingItem).Error

	if err == nil {
		existingItem.Quantity += input.Quantity
		if err := initializers.DB.Save(&existingItem).Error; err != nil {
			log.Println("Update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Cart item quantity updated",
			"id":      existingItem.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart item")
		return
	}

	cartItem := models.CartItem{
		CartID:      int(cart.ID),
		ItemID:      input.ItemID,
		UniformType: category.Name,
		Size:        stockItem.Size,
		Color:       stockItem.Color,
		UnitPrice:   stockItem.Price,
		Quantity:    input.Quantity,
		Barcode:     stockItem.Barcode,
	}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": category.Name + " added to cart",
		"id":      cartItem.ID,
	})
}

func getCart(ctx *gin.Context, kind string) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var cart models.Cart
	result := initializers.DB.
		Where("user_id = ? AND kind = ?", userId, kind).
		Preload("Items").
		First(&cart)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": nil, "total": 0})
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"cart":  cart,
		"total": cartTotal(cart.Items),
	})
}

func updateCartItemQuantity(ctx *gin.Context, kind string) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemId, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "quantity must be greater than zero")
		return
	}

	cart, err := getOrCreateCart(userId, kind)
	if err != nil {
		log.Println("Error fetching cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToCreateCart)
		return
	}

	result := initializers.DB.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", cartItemId, cart.ID).
		Update("quantity", input.Quantity)
	if result.Error != nil {
		log.Println("Error updating cart item:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item quantity updated"})
}

func removeCartItem(ctx *gin.Context, kind string) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemId, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	cart, err := getOrCreateCart(userId, kind)
	if err != nil {
		log.Println("Error fetching cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToCreateCart)
		return
	}

	result := initializers.DB.
		Where("id = ? AND cart_id = ?", cartItemId, cart.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		log.Println("Error removing cart item:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func clearCart(ctx *gin.Context, kind string) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cart, err := getOrCreateCart(userId, kind)
	if err != nil {
		log.Println("Error fetching cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToCreateCart)
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Error clearing cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Storefront cart handlers

func AddCartItem(ctx *gin.Context)            { addCartItem(ctx, models.CartKindStorefront) }
func GetCart(ctx *gin.Context)                { getCart(ctx, models.CartKindStorefront) }
func UpdateCartItemQuantity(ctx *gin.Context) { updateCartItemQuantity(ctx, models.CartKindStorefront) }
func RemoveCartItem(ctx *gin.Context)         { removeCartItem(ctx, models.CartKindStorefront) }
func ClearCart(ctx *gin.Context)              { clearCart(ctx, models.CartKindStorefront) }

// Admin POS cart handlers

func AddPosCartItem(ctx *gin.Context)            { addCartItem(ctx, models.CartKindPOS) }
func GetPosCart(ctx *gin.Context)                { getCart(ctx, models.CartKindPOS) }
func UpdatePosCartItemQuantity(ctx *gin.Context) { updateCartItemQuantity(ctx, models.CartKindPOS) }
func RemovePosCartItem(ctx *gin.Context)         { removeCartItem(ctx, models.CartKindPOS) }
func ClearPosCart(ctx *gin.Context)              { clearCart(ctx, models.CartKindPOS) }

// CheckoutPOS drains the admin's POS cart: every line decrements the same
// variant row a storefront checkout would, and each completed sale lands in
// the ledger. The whole till transaction commits or rolls back as one.
func CheckoutPOS(ctx *gin.Context) {
	adminId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input struct {
		CustomerName string `json:"customerName"`
	}
	// Body is optional for walk-in customers
	_ = ctx.ShouldBindJSON(&input)
	if input.CustomerName == "" {
		input.CustomerName = "Walk-in customer"
	}

	var cart models.Cart
	err := initializers.DB.
		Where("user_id = ? AND kind = ?", adminId, models.CartKindPOS).
		Preload("Items").
		First(&cart).Error
	if err != nil || len(cart.Items) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "POS cart is empty")
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	receiptNumber := "POS-" + strings.ToUpper(uuid.NewString()[:8])
	receiptLines := []string{
		"Receipt " + receiptNumber,
		"Served by " + usernameFromContext(ctx),
		time.Now().Format("2006-01-02 15:04"),
		"--------------------------------",
	}

	var total float64
	var orderIds []uint
	for _, line := range cart.Items {
		category, ok := models.CategoryByName(line.UniformType)
		if !ok {
			tx.Rollback()
			sendErrorResponse(ctx, http.StatusBadRequest, "Cart references an unknown uniform type")
			return
		}

		if err := decrementStock(tx, category, line.ItemID, line.Quantity); err != nil {
			tx.Rollback()
			if errors.Is(err, errInsufficientStock) {
				sendErrorResponse(ctx, http.StatusConflict,
					fmt.Sprintf("Not enough stock for %s (size %s)", line.UniformType, line.Size))
			} else {
				log.Println("Error reserving stock:", err)
				sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			}
			return
		}

		var stockItem models.InventoryItem
		if err := tx.Table(category.Table).First(&stockItem, line.ItemID).Error; err != nil {
			tx.Rollback()
			log.Println("Database error fetching item:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		lineTotal := line.UnitPrice * float64(line.Quantity)
		order := models.Order{
			UserID:           adminId,
			ItemID:           line.ItemID,
			UniformID:        int(stockItem.UniformID),
			UniformType:      line.UniformType,
			Size:             line.Size,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			DeliveryOption:   "Pickup",
			DeliveryFee:      0,
			TotalPrice:       lineTotal,
			Status:           models.OrderStatusCompleted,
			PaymentStatus:    models.PaymentStatusPaid,
			PaymentReference: receiptNumber,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			log.Println("Error creating POS order:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to record sale")
			return
		}
		if err := writeSale(tx, order, input.CustomerName); err != nil {
			tx.Rollback()
			log.Println("Error writing sale record:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to record sale")
			return
		}

		orderIds = append(orderIds, order.ID)
		total += lineTotal
		receiptLines = append(receiptLines,
			fmt.Sprintf("%s %s x%d @ %.2f = %.2f", line.UniformType, line.Size, line.Quantity, line.UnitPrice, lineTotal))
	}

	receiptLines = append(receiptLines,
		"--------------------------------",
		fmt.Sprintf("TOTAL KES %.2f", total),
	)

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		log.Println("Error clearing POS cart:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Error committing POS checkout:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to complete checkout")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":       "Checkout complete",
		"receiptNumber": receiptNumber,
		"receipt":       strings.Join(receiptLines, "\n"),
		"orderIds":      orderIds,
		"total":         total,
	})
}
