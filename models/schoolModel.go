package models

import "gorm.io/gorm"

type School struct {
	gorm.Model
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}
