package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const paystackBaseURL = "https://api.paystack.co"

// InitiatePayment assigns a payment reference to a pending order. The client
// runs the hosted payment widget with this reference; the order is only
// marked paid after VerifyPayment confirms it with the provider.
func InitiatePayment(ctx *gin.Context) {
	userId, ok := userIDFromContext(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

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
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	if order.UserID != userId {
		sendErrorResponse(ctx, http.StatusForbidden, "This order belongs to another customer")
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		sendErrorResponse(ctx, http.StatusConflict, "Order is already paid")
		return
	}

	reference := fmt.Sprintf("ORDER-%d-%s", order.ID, strings.ToUpper(uuid.NewString()[:8]))
	if err := initializers.DB.Model(&order).Updates(map[string]any{
		"payment_reference": reference,
		"updated_at":        time.Now(),
	}).Error; err != nil {
		log.Println("Error saving payment reference:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"reference": reference,
		// Amount in minor units, as the payment widget expects
		"amount":   int64(math.Round(order.TotalPrice * 100)),
		"currency": "KES",
	})
}

// VerifyPayment checks a payment reference against Paystack before marking
// the order paid. A client-reported success on its own is never trusted.
func VerifyPayment(ctx *gin.Context) {
	reference := ctx.Param("reference")
	if reference == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Payment reference is required")
		return
	}

	var order models.Order
	if err := initializers.DB.Where("payment_reference = ?", reference).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "No order matches this payment reference")
		} else {
			log.Println("Database error fetching order:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
	if secretKey == "" {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Missing payment configuration")
		return
	}

	resp, err := resty.New().SetTimeout(30 * time.Second).
		R().
		SetHeader("Authorization", "Bearer "+secretKey).
		SetHeader("Accept", "application/json").
		Get(paystackBaseURL + "/transaction/verify/" + reference)
	if err != nil {
		log.Println("Paystack verification error:", err)
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to verify payment")
		return
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("Paystack verification failed with status %d: %s", resp.StatusCode(), resp.Body())
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to verify payment")
		return
	}

	var verification struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string  `json:"status"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &verification); err != nil {
		sendErrorResponse(ctx, http.StatusBadGateway, "Invalid response from payment gateway")
		return
	}

	expectedAmount := math.Round(order.TotalPrice * 100)
	if !verification.Status || verification.Data.Status != "success" || verification.Data.Amount < expectedAmount {
		if err := initializers.DB.Model(&order).Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
			log.Println("Error recording failed payment:", err)
		}
		sendErrorResponse(ctx, http.StatusPaymentRequired, "Payment was not successful")
		return
	}

	if err := initializers.DB.Model(&order).Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
		log.Println("Error recording payment:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Payment verified successfully.",
		"orderId": order.ID,
	})
}
