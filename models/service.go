package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a catalog entry for work the shop offers
type Service struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:200;not null"`
	Description string  `json:"description" gorm:"type:text"`
	BasePrice   float64 `json:"base_price" gorm:"type:decimal(10,2);not null"`
	Duration    string  `json:"duration" gorm:"size:100"` // e.g. "1-2 hours"
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// ServiceCreate represents the request structure for creating a catalog service
type ServiceCreate struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" binding:"required"`
	Duration    string  `json:"duration"`
}
