package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusApproved   ProjectStatus = "approved"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusRejected   ProjectStatus = "rejected"
)

// Project represents a customer-submitted modification request for custom
// vehicle work. The admin commits a budget by setting ApprovedCost; from that
// point the customer can no longer unilaterally delete the request.
type Project struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	CustomerID      uint          `json:"customer_id" gorm:"not null;index"`
	VehicleID       uint          `json:"vehicle_id" gorm:"not null;index"`
	Description     string        `json:"description" gorm:"type:text;not null"`
	EstimatedBudget float64       `json:"estimated_budget" gorm:"type:decimal(10,2);not null"`
	ApprovedCost    *float64      `json:"approved_cost" gorm:"type:decimal(10,2)"`
	Status          ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','approved','in_progress','completed','rejected')"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Customer User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Vehicle  Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectCreate represents the request structure for submitting a modification request
type ProjectCreate struct {
	VehicleID       uint    `json:"vehicle_id" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	EstimatedBudget float64 `json:"estimated_budget" binding:"required"`
}

// ProjectDecision represents an admin action on a modification request
type ProjectDecision struct {
	Action       string   `json:"action" binding:"required,oneof=approve reject start complete"`
	ApprovedCost *float64 `json:"approved_cost"`
}
