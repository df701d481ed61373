package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wheelsdoc-server/models"
)

func employeeRouter(user models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/employee")
	group.Use(authAs(user))
	RegisterEmployeeRoutes(group)
	return router
}

func assignedAppointment(t *testing.T, db *gorm.DB, profile models.EmployeeProfile) models.Appointment {
	t.Helper()

	customer := createTestUser(t, db, "work-customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "WRK001")
	service := createTestService(t, db, "Brake Inspection")

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		EmployeeID: &profile.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "10:00",
		Status:     models.AppointmentStatusConfirmed,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func TestProgressDrivesStatus(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	path := "/employee/appointments/" + itoa(int(appointment.ID)) + "/progress"

	// Mid progress maps to in_progress
	w, resp := doJSON(t, router, http.MethodPost, path, gin.H{"progress": 50})
	assertStatus(t, w, http.StatusCreated)
	entry := resp["data"].(map[string]any)
	assert.Equal(t, "in_progress", entry["status"])
	assert.EqualValues(t, 50, entry["progress"])

	// 100 maps to completed and syncs the appointment
	w, resp = doJSON(t, router, http.MethodPost, path, gin.H{"progress": 100})
	assertStatus(t, w, http.StatusCreated)
	entry = resp["data"].(map[string]any)
	assert.Equal(t, "completed", entry["status"])
	assert.Equal(t, "completed", resp["appointment_status"])

	var reloaded models.Appointment
	require.NoError(t, db.First(&reloaded, appointment.ID).Error)
	assert.Equal(t, models.AppointmentStatusCompleted, reloaded.Status)

	// Logs are append-only: both updates remain
	var count int64
	require.NoError(t, db.Model(&models.ServiceLog{}).Where("appointment_id = ?", appointment.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCompletionUpdatesJobCounters(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	require.NoError(t, db.Model(&models.EmployeeProfile{}).
		Where("id = ?", profile.ID).Update("active_jobs", 1).Error)
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	path := "/employee/appointments/" + itoa(int(appointment.ID)) + "/progress"

	// Mid progress leaves the counters alone
	w, _ := doJSON(t, router, http.MethodPost, path, gin.H{"progress": 50})
	assertStatus(t, w, http.StatusCreated)

	var reloaded models.EmployeeProfile
	require.NoError(t, db.First(&reloaded, profile.ID).Error)
	assert.Equal(t, 1, reloaded.ActiveJobs)
	assert.Equal(t, 0, reloaded.CompletedJobs)

	// Completion frees the active slot and records the finished job
	w, _ = doJSON(t, router, http.MethodPost, path, gin.H{"progress": 100})
	assertStatus(t, w, http.StatusCreated)

	require.NoError(t, db.First(&reloaded, profile.ID).Error)
	assert.Equal(t, 0, reloaded.ActiveJobs)
	assert.Equal(t, 1, reloaded.CompletedJobs)
}

func TestOnHoldSticksAgainstProgressUpdates(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	base := "/employee/appointments/" + itoa(int(appointment.ID))

	w, _ := doJSON(t, router, http.MethodPost, base+"/progress", gin.H{"progress": 40})
	assertStatus(t, w, http.StatusCreated)

	w, resp := doJSON(t, router, http.MethodPost, base+"/status", gin.H{"status": "on_hold"})
	assertStatus(t, w, http.StatusCreated)
	entry := resp["data"].(map[string]any)
	assert.Equal(t, "on_hold", entry["status"])
	assert.EqualValues(t, 40, entry["progress"])

	// Progress-only changes do not lift the hold
	w, resp = doJSON(t, router, http.MethodPost, base+"/progress", gin.H{"progress": 70})
	assertStatus(t, w, http.StatusCreated)
	entry = resp["data"].(map[string]any)
	assert.Equal(t, "on_hold", entry["status"])
	assert.EqualValues(t, 70, entry["progress"])

	// An explicit status change does
	w, resp = doJSON(t, router, http.MethodPost, base+"/status", gin.H{"status": "in_progress"})
	assertStatus(t, w, http.StatusCreated)
	entry = resp["data"].(map[string]any)
	assert.Equal(t, "in_progress", entry["status"])
	assert.EqualValues(t, 70, entry["progress"])
}

func TestExplicitStatusForcesProgress(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	base := "/employee/appointments/" + itoa(int(appointment.ID))

	w, _ := doJSON(t, router, http.MethodPost, base+"/progress", gin.H{"progress": 60})
	assertStatus(t, w, http.StatusCreated)

	// Completing forces progress to 100 regardless of the last value
	w, resp := doJSON(t, router, http.MethodPost, base+"/status", gin.H{"status": "completed", "hours_worked": 2.5})
	assertStatus(t, w, http.StatusCreated)
	entry := resp["data"].(map[string]any)
	assert.Equal(t, "completed", entry["status"])
	assert.EqualValues(t, 100, entry["progress"])
	assert.EqualValues(t, 2.5, entry["hours_worked"])
}

func TestProgressValidation(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	path := "/employee/appointments/" + itoa(int(appointment.ID)) + "/progress"

	for _, progress := range []int{-1, 101} {
		w, _ := doJSON(t, router, http.MethodPost, path, gin.H{"progress": progress})
		assertStatus(t, w, http.StatusBadRequest)
	}
}

func TestUnassignedEmployeeCannotLog(t *testing.T) {
	db := setupTestDB(t)
	_, profile := createTestEmployee(t, db, "assigned@example.com")
	appointment := assignedAppointment(t, db, profile)

	otherUser, _ := createTestEmployee(t, db, "other@example.com")
	router := employeeRouter(otherUser)

	w, _ := doJSON(t, router, http.MethodPost,
		"/employee/appointments/"+itoa(int(appointment.ID))+"/progress", gin.H{"progress": 10})
	assertStatus(t, w, http.StatusForbidden)
}

func TestTimeLogsTotalHours(t *testing.T) {
	db := setupTestDB(t)
	user, profile := createTestEmployee(t, db, "tech@example.com")
	appointment := assignedAppointment(t, db, profile)
	router := employeeRouter(user)

	base := "/employee/appointments/" + itoa(int(appointment.ID))

	w, _ := doJSON(t, router, http.MethodPost, base+"/status", gin.H{"status": "in_progress", "progress": 30, "hours_worked": 1.5})
	assertStatus(t, w, http.StatusCreated)
	w, _ = doJSON(t, router, http.MethodPost, base+"/status", gin.H{"status": "completed", "hours_worked": 2.0})
	assertStatus(t, w, http.StatusCreated)

	w, resp := doJSON(t, router, http.MethodGet, "/employee/time-logs", nil)
	assertStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 2, resp["count"])
	assert.EqualValues(t, 3.5, resp["total_hours"])
}

func TestBookingToCompletionFlow(t *testing.T) {
	db := setupTestDB(t)

	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "FLOW01")
	service := createTestService(t, db, "Wheel Alignment")
	employeeUser, profile := createTestEmployee(t, db, "tech@example.com")

	customerRouter := appointmentRouter(customer)
	techRouter := employeeRouter(employeeUser)

	// Customer books a Tuesday slot
	w, resp := doJSON(t, customerRouter, http.MethodPost, "/appointments", gin.H{
		"vehicle_id": vehicle.ID,
		"service_id": service.ID,
		"date":       "2026-09-08",
		"time":       "10:00",
	})
	assertStatus(t, w, http.StatusCreated)
	appointmentID := int(resp["data"].(map[string]any)["id"].(float64))

	// Shop assigns the technician
	require.NoError(t, db.Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Updates(map[string]any{"employee_id": profile.ID, "status": models.AppointmentStatusConfirmed}).Error)

	// Technician works the job
	base := "/employee/appointments/" + itoa(appointmentID)
	w, _ = doJSON(t, techRouter, http.MethodPost, base+"/progress", gin.H{"progress": 50})
	assertStatus(t, w, http.StatusCreated)
	w, _ = doJSON(t, techRouter, http.MethodPost, base+"/status", gin.H{"status": "completed", "hours_worked": 1.0})
	assertStatus(t, w, http.StatusCreated)

	// Customer sees the finished appointment
	w, resp = doJSON(t, customerRouter, http.MethodGet, "/appointments/"+itoa(appointmentID), nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "completed", resp["data"].(map[string]any)["status"])
	status := resp["service_status"].(map[string]any)
	assert.Equal(t, "completed", status["status"])
	assert.EqualValues(t, 100, status["progress"])
}
