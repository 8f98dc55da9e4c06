package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// DeliveryFees maps a delivery option to its flat surcharge in KES.
var DeliveryFees = map[string]float64{
	"Pickup":           0,
	"Home Delivery":    200,
	"Express Delivery": 500,
}

type Order struct {
	gorm.Model
	UserID           int     `json:"userId"`
	ItemID           int     `json:"itemId"`
	UniformID        int     `json:"uniformId"`
	UniformType      string  `json:"uniformType"`
	Size             string  `json:"size"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	DeliveryOption   string  `json:"deliveryOption"`
	DeliveryFee      float64 `json:"deliveryFee"`
	TotalPrice       float64 `json:"totalPrice"`
	// Point-in-time snapshot of the school name at checkout; intentionally
	// not a foreign key so later renames do not rewrite order history.
	OrderedSchoolName string `json:"orderedSchoolName"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"paymentStatus"`
	PaymentReference  string `json:"paymentReference"`
}

// Sale is the append-only ledger row written when an order completes. The
// unique index on OrderID is what makes completion idempotent.
type Sale struct {
	gorm.Model
	OrderID      int       `json:"orderId" gorm:"uniqueIndex"`
	ItemID       int       `json:"itemId"`
	UserID       int       `json:"userId"`
	UniformID    int       `json:"uniformId"`
	CustomerName string    `json:"customerName"`
	UniformType  string    `json:"uniformType"`
	Size         string    `json:"size"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"totalPrice"`
	SaleDate     time.Time `json:"saleDate"`
}
