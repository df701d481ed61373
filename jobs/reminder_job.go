package jobs

import (
	"log"
	"time"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
)

// ReminderJob sends day-before reminders for upcoming appointments
type ReminderJob struct {
	stopChan chan bool
}

// NewReminderJob creates a new reminder job
func NewReminderJob() *ReminderJob {
	return &ReminderJob{
		stopChan: make(chan bool),
	}
}

// Start begins the reminder job
func (j *ReminderJob) Start() {
	go j.run()
	log.Println("🚀 Reminder job started")
}

// Stop stops the reminder job
func (j *ReminderJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Reminder job stopped")
}

func (j *ReminderJob) run() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	// Also check once at startup so restarts don't miss a window
	j.checkUpcomingAppointments()

	for {
		select {
		case <-ticker.C:
			j.checkUpcomingAppointments()
		case <-j.stopChan:
			return
		}
	}
}

// checkUpcomingAppointments finds appointments within the next 24 hours that
// have not been reminded yet and creates a notification for each customer.
func (j *ReminderJob) checkUpcomingAppointments() {
	now := time.Now()
	windowEnd := now.Add(24 * time.Hour)

	var upcoming []models.Appointment
	err := database.DB.Preload("Service").
		Where("status IN (?) AND reminder_sent = ? AND date >= ? AND date <= ?",
			[]string{string(models.AppointmentStatusScheduled), string(models.AppointmentStatusConfirmed)},
			false,
			now.Truncate(24*time.Hour),
			windowEnd).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("❌ Error checking upcoming appointments: %v", err)
		return
	}

	if len(upcoming) == 0 {
		return
	}

	log.Printf("⏰ Found %d appointments due for a reminder", len(upcoming))

	for _, appointment := range upcoming {
		j.sendReminder(appointment)
	}
}

func (j *ReminderJob) sendReminder(appointment models.Appointment) {
	notification := models.Notification{
		UserID: appointment.CustomerID,
		Title:  "Appointment reminder",
		Body:   "Your " + appointment.Service.Name + " appointment is coming up at " + appointment.Time + " on " + appointment.Date.Format("Jan 2, 2006") + ".",
		Type:   "appointment_reminder",
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("❌ Failed to create reminder for appointment %d: %v", appointment.ID, err)
		return
	}

	if err := database.DB.Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Update("reminder_sent", true).Error; err != nil {
		log.Printf("❌ Failed to mark appointment %d as reminded: %v", appointment.ID, err)
		return
	}

	log.Printf("✅ Reminder sent for appointment %d", appointment.ID)
}
