package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle represents a customer-owned vehicle serviced by the shop
type Vehicle struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CustomerID  uint   `json:"customer_id" gorm:"not null;index"`
	Make        string `json:"make" gorm:"size:100;not null"`
	Model       string `json:"model" gorm:"size:100;not null"`
	Year        int    `json:"year" gorm:"not null"`
	PlateNumber string `json:"plate_number" gorm:"size:20;uniqueIndex;not null"`
	Color       string `json:"color" gorm:"size:50"`
	Mileage     *int   `json:"mileage"`

	// Up to two exterior photos and one interior photo per vehicle
	ExteriorFrontURL *string `json:"exterior_front_url" gorm:"size:500"`
	ExteriorRearURL  *string `json:"exterior_rear_url" gorm:"size:500"`
	InteriorURL      *string `json:"interior_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Customer     User          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// VehicleCreate represents the request structure for registering a vehicle
type VehicleCreate struct {
	Make        string `json:"make" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Year        int    `json:"year" binding:"required,min=1900"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Color       string `json:"color"`
	Mileage     *int   `json:"mileage"`
}
