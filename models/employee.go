package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployeeProfile represents a shop employee's professional profile
type EmployeeProfile struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	UserID         uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Specialization string  `json:"specialization" gorm:"type:varchar(100);not null"` // e.g. engine, bodywork, electrical
	Experience     string  `json:"experience" gorm:"type:text"`
	HourlyRate     float64 `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`
	IsAvailable    bool    `json:"is_available" gorm:"default:true"`

	ActiveJobs    int `json:"active_jobs" gorm:"default:0"`
	CompletedJobs int `json:"completed_jobs" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the EmployeeProfile model
func (EmployeeProfile) TableName() string {
	return "employee_profiles"
}

// EmployeeProfileRequest represents the request structure for creating an employee profile
type EmployeeProfileRequest struct {
	Specialization string  `json:"specialization" binding:"required"`
	Experience     string  `json:"experience"`
	HourlyRate     float64 `json:"hourly_rate"`
}
