package models

import (
	"time"
)

type ServiceLogStatus string

const (
	ServiceLogStatusNotStarted ServiceLogStatus = "not_started"
	ServiceLogStatusInProgress ServiceLogStatus = "in_progress"
	ServiceLogStatusCompleted  ServiceLogStatus = "completed"
	ServiceLogStatusOnHold     ServiceLogStatus = "on_hold"
)

// ServiceLog is one immutable record of work reported against an appointment.
// Logs are append-only; the latest row defines the appointment's current
// service status and progress.
type ServiceLog struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	AppointmentID uint             `json:"appointment_id" gorm:"not null;index"`
	EmployeeID    uint             `json:"employee_id" gorm:"not null;index"`
	HoursWorked   float64          `json:"hours_worked" gorm:"type:decimal(5,2);default:0"`
	Progress      int              `json:"progress" gorm:"not null;check:progress >= 0 AND progress <= 100"`
	Status        ServiceLogStatus `json:"status" gorm:"type:varchar(20);not null;check:status IN ('not_started','in_progress','completed','on_hold')"`
	Notes         *string          `json:"notes" gorm:"size:1000"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Appointment Appointment     `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	Employee    EmployeeProfile `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

// TableName specifies the table name for the ServiceLog model
func (ServiceLog) TableName() string {
	return "service_logs"
}

// ProgressUpdate represents a progress-slider change from an employee
type ProgressUpdate struct {
	Progress *int    `json:"progress" binding:"required"`
	Notes    *string `json:"notes"`
}

// StatusUpdate represents an explicit status change from an employee
type StatusUpdate struct {
	Status      ServiceLogStatus `json:"status" binding:"required,oneof=not_started in_progress completed on_hold"`
	Progress    *int             `json:"progress"`
	HoursWorked *float64         `json:"hours_worked"`
	Notes       *string          `json:"notes"`
}
