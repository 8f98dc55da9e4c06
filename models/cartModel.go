package models

import "gorm.io/gorm"

// Cart kinds. A user has at most one cart of each kind; the POS kind belongs
// to the admin operating the till.
const (
	CartKindStorefront = "storefront"
	CartKindPOS        = "pos"
)

type Cart struct {
	gorm.Model
	UserID int        `json:"userId" gorm:"index:idx_cart_user_kind,unique"`
	Kind   string     `json:"kind" gorm:"index:idx_cart_user_kind,unique"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem snapshots the variant at the moment it was added; price changes
// after that do not move the cart total.
type CartItem struct {
	gorm.Model
	CartID      int     `json:"cartId"`
	ItemID      int     `json:"itemId"`
	UniformType string  `json:"uniformType"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Barcode     string  `json:"barcode"`
}
