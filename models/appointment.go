package models

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

// Appointment ties a customer, vehicle and service to a bookable slot.
// Appointments are never hard-deleted; cancellation is a status change.
type Appointment struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	CustomerID uint              `json:"customer_id" gorm:"not null;index"`
	VehicleID  uint              `json:"vehicle_id" gorm:"not null;index"`
	ServiceID  uint              `json:"service_id" gorm:"not null"`
	EmployeeID *uint             `json:"employee_id"` // assigned by admin, can be null initially
	Date       time.Time         `json:"date" gorm:"not null"`
	Time       string            `json:"time" gorm:"size:20;not null"` // canonical slot key, "09:00"
	Status     AppointmentStatus `json:"status" gorm:"type:varchar(20);default:'scheduled';check:status IN ('scheduled','confirmed','in_progress','completed','cancelled')"`
	Notes      *string           `json:"notes" gorm:"size:1000"`

	ReminderSent bool `json:"reminder_sent" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Customer User             `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Vehicle  Vehicle          `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Service  Service          `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Employee *EmployeeProfile `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`

	ServiceLogs []ServiceLog `json:"service_logs,omitempty" gorm:"foreignKey:AppointmentID"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// IsCancellable reports whether a customer may still cancel the appointment
func (a *Appointment) IsCancellable() bool {
	switch a.Status {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed:
		return true
	default:
		return false
	}
}

// AppointmentCreate represents the request structure for booking an appointment
type AppointmentCreate struct {
	VehicleID uint    `json:"vehicle_id" binding:"required"`
	ServiceID uint    `json:"service_id" binding:"required"`
	Date      string  `json:"date" binding:"required"` // "2006-01-02"
	Time      string  `json:"time" binding:"required"` // canonical slot key, "09:00"
	Notes     *string `json:"notes"`
}
