package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wheelsdoc-server/config"
	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/scheduling"
)

// ErrSlotTaken is returned when the requested slot was claimed between the
// availability read and the booking write.
var ErrSlotTaken = errors.New("slot no longer available")

// RegisterAppointmentRoutes registers appointment booking routes
func RegisterAppointmentRoutes(router *gin.RouterGroup) {
	router.GET("/slots", getAvailableSlots)
	router.POST("", createAppointment)
	router.POST("/", createAppointment)
	router.GET("/my-appointments", getMyAppointments)
	router.GET("/:id", getAppointment)
	router.POST("/:id/cancel", cancelAppointment)
}

// businessHours resolves the operating window from configuration
func businessHours() scheduling.Hours {
	if config.AppConfig == nil {
		return scheduling.DefaultHours
	}
	return scheduling.Hours{
		Start: config.AppConfig.Business.StartHour,
		End:   config.AppConfig.Business.EndHour,
	}
}

// bookedTimesForDate fetches the slot keys of non-cancelled appointments on a date
func bookedTimesForDate(tx *gorm.DB, date time.Time) ([]string, error) {
	var times []string
	err := tx.Model(&models.Appointment{}).
		Where("date = ? AND status <> ?", date, models.AppointmentStatusCancelled).
		Pluck("time", &times).Error
	return times, err
}

// getAvailableSlots computes the bookable slots for a requested date.
// Availability is advisory; the booking write re-checks inside its transaction.
func getAvailableSlots(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing date",
			"message": "Query parameter 'date' is required (format: 2006-01-02)",
		})
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid date",
			"message": "Date must be in format 2006-01-02",
		})
		return
	}

	booked, err := bookedTimesForDate(database.DB, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch bookings",
			"message": "Please try again",
		})
		return
	}

	availability := scheduling.ComputeAvailableSlots(date, booked, businessHours())
	c.JSON(http.StatusOK, gin.H{
		"message": "Available slots retrieved successfully",
		"data":    availability,
	})
}

// createAppointment books a slot for the authenticated customer
func createAppointment(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.AppointmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid date",
			"message": "Date must be in format 2006-01-02",
		})
		return
	}

	if date.Weekday() == time.Sunday {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Shop closed",
			"message": "Closed on Sundays",
		})
		return
	}

	if !scheduling.IsValidSlot(req.Time, businessHours()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid time slot",
			"message": "Requested time is outside business hours",
		})
		return
	}

	// Vehicle must belong to the booking customer
	var vehicle models.Vehicle
	if err := database.DB.Where("id = ? AND customer_id = ?", req.VehicleID, userID).First(&vehicle).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Vehicle not found",
			"message": "Vehicle does not exist or does not belong to you",
		})
		return
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Service not found",
			"message": "Requested service is not available",
		})
		return
	}

	appointment := models.Appointment{
		CustomerID: userID,
		VehicleID:  req.VehicleID,
		ServiceID:  req.ServiceID,
		Date:       date,
		Time:       req.Time,
		Status:     models.AppointmentStatusScheduled,
		Notes:      req.Notes,
	}

	// The availability shown to the customer is advisory only. Re-check the
	// slot inside the write transaction; the partial unique index backs this
	// up for writers racing between the check and the insert.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Appointment{}).
			Where("date = ? AND time = ? AND status <> ?", date, req.Time, models.AppointmentStatusCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&appointment).Error
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Slot no longer available",
				"message": "This time slot was just booked, please pick another one",
			})
			return
		}
		log.Printf("❌ Failed to create appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Booking failed",
			"message": "Failed to create appointment, please try again",
		})
		return
	}

	log.Printf("✅ Appointment %d booked for %s %s", appointment.ID, req.Date, req.Time)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Appointment booked successfully",
		"data":    appointment,
	})
}

// getMyAppointments lists the authenticated customer's appointments
func getMyAppointments(c *gin.Context) {
	userID := c.GetUint("user_id")

	var appointments []models.Appointment
	if err := database.DB.
		Preload("Vehicle").
		Preload("Service").
		Preload("Employee").
		Where("customer_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch appointments",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Appointments retrieved successfully",
		"data":    appointments,
		"count":   len(appointments),
	})
}

// getAppointment returns a single appointment with its latest service status
func getAppointment(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var appointment models.Appointment
	if err := database.DB.
		Preload("Vehicle").
		Preload("Service").
		Preload("Employee").
		First(&appointment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Appointment not found",
			"message": "Appointment does not exist",
		})
		return
	}

	// Customers can only see their own appointments
	role := c.GetString("user_role")
	if role == string(models.RoleCustomer) && appointment.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "You can only view your own appointments",
		})
		return
	}

	// The latest service log is the current service status
	var latestLog models.ServiceLog
	var current gin.H
	if err := database.DB.
		Where("appointment_id = ?", appointment.ID).
		Order("id DESC").
		First(&latestLog).Error; err == nil {
		current = gin.H{
			"status":   latestLog.Status,
			"progress": latestLog.Progress,
		}
	} else {
		current = gin.H{
			"status":   models.ServiceLogStatusNotStarted,
			"progress": 0,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Appointment retrieved successfully",
		"data":           appointment,
		"service_status": current,
	})
}

// cancelAppointment marks an appointment cancelled; rows are never deleted
func cancelAppointment(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var appointment models.Appointment
	if err := database.DB.Where("id = ? AND customer_id = ?", id, userID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Appointment not found",
			"message": "Appointment does not exist or does not belong to you",
		})
		return
	}

	if !appointment.IsCancellable() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Cannot cancel",
			"message": "Appointment can no longer be cancelled",
		})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		appointment.Status = models.AppointmentStatusCancelled
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		// An assigned technician gets their job slot back
		if appointment.EmployeeID != nil {
			return tx.Model(&models.EmployeeProfile{}).
				Where("id = ? AND active_jobs > 0", *appointment.EmployeeID).
				Update("active_jobs", gorm.Expr("active_jobs - 1")).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Cancellation failed",
			"message": "Failed to cancel appointment, please try again",
		})
		return
	}

	log.Printf("✅ Appointment %d cancelled by customer %d", appointment.ID, userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Appointment cancelled successfully",
		"data":    appointment,
	})
}
