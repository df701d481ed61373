package models

import (
	"time"

	"gorm.io/gorm"
)

// Part represents an inventory item used during services
type Part struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"size:200;not null"`
	PartNumber string  `json:"part_number" gorm:"size:100;uniqueIndex;not null"`
	Price      float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock      int     `json:"stock" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Part model
func (Part) TableName() string {
	return "parts"
}

// PartCreate represents the request structure for adding a part
type PartCreate struct {
	Name       string  `json:"name" binding:"required"`
	PartNumber string  `json:"part_number" binding:"required"`
	Price      float64 `json:"price" binding:"required"`
	Stock      int     `json:"stock"`
}
