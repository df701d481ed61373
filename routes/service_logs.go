package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/scheduling"
	ws "wheelsdoc-server/websocket"
)

// progressBroadcaster is wired at startup; nil in tests and before InitProgressHub
var progressBroadcaster *ws.ProgressBroadcaster

// InitProgressHub wires the websocket broadcaster used for live status updates
func InitProgressHub(hub *ws.Hub) {
	progressBroadcaster = ws.NewProgressBroadcaster(hub)
}

// RegisterEmployeeRoutes registers the employee work-tracking routes
func RegisterEmployeeRoutes(router *gin.RouterGroup) {
	router.GET("/appointments", getAssignedAppointments)
	router.GET("/appointments/:id/logs", getServiceLogs)
	router.POST("/appointments/:id/progress", updateProgress)
	router.POST("/appointments/:id/status", updateStatus)
	router.GET("/time-logs", getMyTimeLogs)
}

// employeeProfileFor loads the employee profile of the authenticated user
func employeeProfileFor(c *gin.Context) (*models.EmployeeProfile, bool) {
	userID := c.GetUint("user_id")

	var profile models.EmployeeProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Employee profile not found",
			"message": "No employee profile is associated with this account",
		})
		return nil, false
	}
	return &profile, true
}

// getAssignedAppointments lists appointments assigned to the employee
func getAssignedAppointments(c *gin.Context) {
	profile, ok := employeeProfileFor(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := database.DB.
		Preload("Customer").
		Preload("Vehicle").
		Preload("Service").
		Where("employee_id = ? AND status <> ?", profile.ID, models.AppointmentStatusCancelled).
		Order("date ASC, time ASC").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch appointments",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assigned appointments retrieved successfully",
		"data":    appointments,
		"count":   len(appointments),
	})
}

// getServiceLogs returns the append-only work history for an appointment
func getServiceLogs(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var logs []models.ServiceLog
	if err := database.DB.
		Where("appointment_id = ?", id).
		Order("id ASC").
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch service logs",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service logs retrieved successfully",
		"data":    logs,
		"count":   len(logs),
	})
}

// currentServiceState returns the status/progress on the latest log, or the
// initial not_started state when no log exists yet.
func currentServiceState(tx *gorm.DB, appointmentID uint) (scheduling.WorkStatus, int) {
	var latest models.ServiceLog
	if err := tx.Where("appointment_id = ?", appointmentID).Order("id DESC").First(&latest).Error; err != nil {
		return scheduling.StatusNotStarted, 0
	}
	return scheduling.WorkStatus(latest.Status), latest.Progress
}

// appendServiceLog runs the reconciler and appends the resulting immutable
// log entry, synchronizing the appointment on completion.
func appendServiceLog(appointment *models.Appointment, employee *models.EmployeeProfile, newProgress *int, newStatus *scheduling.WorkStatus, hoursWorked float64, notes *string) (*models.ServiceLog, error) {
	var entry models.ServiceLog

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		currentStatus, currentProgress := currentServiceState(tx, appointment.ID)

		status, progress, err := scheduling.Reconcile(currentStatus, currentProgress, newProgress, newStatus)
		if err != nil {
			return err
		}

		entry = models.ServiceLog{
			AppointmentID: appointment.ID,
			EmployeeID:    employee.ID,
			HoursWorked:   hoursWorked,
			Progress:      progress,
			Status:        models.ServiceLogStatus(status),
			Notes:         notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// The appointment and its latest log synchronize on completion only
		if status == scheduling.StatusCompleted && appointment.Status != models.AppointmentStatusCompleted {
			appointment.Status = models.AppointmentStatusCompleted
			if err := tx.Model(&models.Appointment{}).
				Where("id = ?", appointment.ID).
				Update("status", models.AppointmentStatusCompleted).Error; err != nil {
				return err
			}
			// Release the job slot taken at assignment time
			if err := tx.Model(&models.EmployeeProfile{}).
				Where("id = ?", employee.ID).
				Updates(map[string]interface{}{
					"active_jobs":    gorm.Expr("CASE WHEN active_jobs > 0 THEN active_jobs - 1 ELSE 0 END"),
					"completed_jobs": gorm.Expr("completed_jobs + 1"),
				}).Error; err != nil {
				return err
			}
		} else if status == scheduling.StatusInProgress && appointment.Status == models.AppointmentStatusConfirmed {
			appointment.Status = models.AppointmentStatusInProgress
			if err := tx.Model(&models.Appointment{}).
				Where("id = ?", appointment.ID).
				Update("status", models.AppointmentStatusInProgress).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if progressBroadcaster != nil {
		progressBroadcaster.BroadcastServiceLog(*appointment, entry)
	}

	return &entry, nil
}

// loadAssignedAppointment fetches an appointment and verifies assignment
func loadAssignedAppointment(c *gin.Context, employee *models.EmployeeProfile) (*models.Appointment, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return nil, false
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Appointment not found",
			"message": "Appointment does not exist",
		})
		return nil, false
	}

	if appointment.EmployeeID == nil || *appointment.EmployeeID != employee.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "This appointment is not assigned to you",
		})
		return nil, false
	}

	if appointment.Status == models.AppointmentStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Appointment cancelled",
			"message": "Cannot log work against a cancelled appointment",
		})
		return nil, false
	}

	return &appointment, true
}

// updateProgress records a progress-slider change from the employee
func updateProgress(c *gin.Context) {
	profile, ok := employeeProfileFor(c)
	if !ok {
		return
	}

	appointment, ok := loadAssignedAppointment(c, profile)
	if !ok {
		return
	}

	var req models.ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	entry, err := appendServiceLog(appointment, profile, req.Progress, nil, 0, req.Notes)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidProgress) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid progress",
				"message": err.Error(),
			})
			return
		}
		log.Printf("❌ Failed to append service log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to record progress, please try again",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Progress recorded successfully",
		"data":               entry,
		"appointment_status": appointment.Status,
	})
}

// updateStatus records an explicit status change, optionally with hours worked
func updateStatus(c *gin.Context) {
	profile, ok := employeeProfileFor(c)
	if !ok {
		return
	}

	appointment, ok := loadAssignedAppointment(c, profile)
	if !ok {
		return
	}

	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	newStatus := scheduling.WorkStatus(req.Status)
	hours := 0.0
	if req.HoursWorked != nil {
		hours = *req.HoursWorked
	}

	entry, err := appendServiceLog(appointment, profile, req.Progress, &newStatus, hours, req.Notes)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidProgress) || errors.Is(err, scheduling.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid status update",
				"message": err.Error(),
			})
			return
		}
		log.Printf("❌ Failed to append service log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to record status, please try again",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Status recorded successfully",
		"data":               entry,
		"appointment_status": appointment.Status,
	})
}

// getMyTimeLogs returns the employee's own work history and total hours
func getMyTimeLogs(c *gin.Context) {
	profile, ok := employeeProfileFor(c)
	if !ok {
		return
	}

	var logs []models.ServiceLog
	if err := database.DB.
		Preload("Appointment").
		Preload("Appointment.Vehicle").
		Preload("Appointment.Service").
		Where("employee_id = ?", profile.ID).
		Order("id DESC").
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch time logs",
			"message": "Please try again",
		})
		return
	}

	var totalHours float64
	for _, l := range logs {
		totalHours += l.HoursWorked
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Time logs retrieved successfully",
		"data":        logs,
		"count":       len(logs),
		"total_hours": totalHours,
	})
}
