package models

import "gorm.io/gorm"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	gorm.Model
	Fullname               string `json:"fullname"`
	Username               string `json:"username"`
	Email                  string `json:"email" gorm:"uniqueIndex"`
	Phone                  string `json:"phone"`
	Password               string `json:"-"`
	Role                   string `json:"role"`
	IsActive               bool   `json:"isActive"`
	AccountActivated       bool   `json:"accountActivated"`
	AccountActivationToken string `json:"-"`
	PasswordResetToken     string `json:"-"`
}

type SignupData struct {
	Fullname  string `json:"fullname" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

type LoginData struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
