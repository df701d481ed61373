package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelsdoc-server/models"
)

func adminRouter(admin models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/admin")
	group.Use(authAs(admin))
	group.GET("/dashboard/stats", GetDashboardStats)
	group.GET("/users", GetAllUsers)
	group.PATCH("/users/:id/status", UpdateUserStatus)
	group.POST("/users/:id/employee-profile", CreateEmployeeProfile)
	group.GET("/appointments/:id", GetAppointmentById)
	group.POST("/appointments/:id/confirm", ConfirmAppointment)
	group.POST("/appointments/:id/assign", AssignEmployee)
	group.POST("/projects/:id/decision", DecideProject)
	return router
}

func TestDecideProjectLifecycle(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	project := createTestProject(t, db, customer.ID, vehicle.ID)
	router := adminRouter(admin)

	path := "/admin/projects/" + itoa(int(project.ID)) + "/decision"

	// Approval requires a cost
	w, _ := doJSON(t, router, http.MethodPost, path, gin.H{"action": "approve"})
	assertStatus(t, w, http.StatusBadRequest)

	// Cannot start a pending request
	w, _ = doJSON(t, router, http.MethodPost, path, gin.H{"action": "start"})
	assertStatus(t, w, http.StatusBadRequest)

	w, resp := doJSON(t, router, http.MethodPost, path, gin.H{"action": "approve", "approved_cost": 2800})
	assertStatus(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "approved", data["status"])
	assert.EqualValues(t, 2800, data["approved_cost"])

	w, _ = doJSON(t, router, http.MethodPost, path, gin.H{"action": "start"})
	assertStatus(t, w, http.StatusOK)

	w, resp = doJSON(t, router, http.MethodPost, path, gin.H{"action": "complete"})
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "completed", resp["data"].(map[string]any)["status"])

	// Every decision notified the customer
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", customer.ID, "project_decision").
		Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestRejectedProjectStaysLocked(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	project := createTestProject(t, db, customer.ID, vehicle.ID)

	w, _ := doJSON(t, adminRouter(admin), http.MethodPost,
		"/admin/projects/"+itoa(int(project.ID))+"/decision", gin.H{"action": "reject"})
	assertStatus(t, w, http.StatusOK)

	// The customer cannot delete a reviewed request
	w, _ = doJSON(t, projectRouter(customer), http.MethodDelete, "/projects/"+itoa(int(project.ID)), nil)
	assertStatus(t, w, http.StatusForbidden)
}

func TestAssignEmployeeConfirmsAppointment(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "ABC123")
	service := createTestService(t, db, "Oil Change")
	_, profile := createTestEmployee(t, db, "tech@example.com")
	router := adminRouter(admin)

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "09:00",
		Status:     models.AppointmentStatusScheduled,
	}
	require.NoError(t, db.Create(&appointment).Error)

	w, resp := doJSON(t, router, http.MethodPost,
		"/admin/appointments/"+itoa(int(appointment.ID))+"/assign", gin.H{"employee_id": profile.ID})
	assertStatus(t, w, http.StatusOK)

	data := resp["data"].(map[string]any)
	assert.Equal(t, "confirmed", data["status"])
	assert.EqualValues(t, profile.ID, data["employee_id"])

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", customer.ID, "appointment_confirmed").First(&notification).Error)
}

func TestGetAppointmentByIdIncludesHistory(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "ABC123")
	service := createTestService(t, db, "Oil Change")
	_, profile := createTestEmployee(t, db, "tech@example.com")
	router := adminRouter(admin)

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		EmployeeID: &profile.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "09:00",
		Status:     models.AppointmentStatusInProgress,
	}
	require.NoError(t, db.Create(&appointment).Error)
	require.NoError(t, db.Create(&models.ServiceLog{
		AppointmentID: appointment.ID,
		EmployeeID:    profile.ID,
		Progress:      40,
		Status:        models.ServiceLogStatusInProgress,
	}).Error)

	w, resp := doJSON(t, router, http.MethodGet,
		"/admin/appointments/"+itoa(int(appointment.ID)), nil)
	assertStatus(t, w, http.StatusOK)

	data := resp["data"].(map[string]any)
	assert.Equal(t, "in_progress", data["status"])
	assert.Equal(t, "customer@example.com", data["customer"].(map[string]any)["email"])
	logs := data["service_logs"].([]any)
	require.Len(t, logs, 1)
	assert.EqualValues(t, 40, logs[0].(map[string]any)["progress"])

	w, _ = doJSON(t, router, http.MethodGet, "/admin/appointments/999", nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestConfirmAppointmentWithoutAssignment(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "ABC123")
	service := createTestService(t, db, "Oil Change")
	router := adminRouter(admin)

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "09:00",
		Status:     models.AppointmentStatusScheduled,
	}
	require.NoError(t, db.Create(&appointment).Error)

	path := "/admin/appointments/" + itoa(int(appointment.ID)) + "/confirm"

	w, resp := doJSON(t, router, http.MethodPost, path, nil)
	assertStatus(t, w, http.StatusOK)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "confirmed", data["status"])
	assert.Nil(t, data["employee_id"])

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", customer.ID, "appointment_confirmed").First(&notification).Error)

	// Only scheduled appointments can be confirmed
	w, _ = doJSON(t, router, http.MethodPost, path, nil)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestAssignEmployeeRejectsClosedAppointment(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "ABC123")
	service := createTestService(t, db, "Oil Change")
	_, profile := createTestEmployee(t, db, "tech@example.com")
	router := adminRouter(admin)

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "09:00",
		Status:     models.AppointmentStatusCancelled,
	}
	require.NoError(t, db.Create(&appointment).Error)

	w, _ := doJSON(t, router, http.MethodPost,
		"/admin/appointments/"+itoa(int(appointment.ID))+"/assign", gin.H{"employee_id": profile.ID})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestCreateEmployeeProfilePromotesUser(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	user := createTestUser(t, db, "newtech@example.com", models.RoleCustomer)
	router := adminRouter(admin)

	w, resp := doJSON(t, router, http.MethodPost,
		"/admin/users/"+itoa(int(user.ID))+"/employee-profile",
		gin.H{"specialization": "bodywork", "hourly_rate": 38.5})
	assertStatus(t, w, http.StatusCreated)
	assert.Equal(t, "bodywork", resp["data"].(map[string]any)["specialization"])

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.RoleEmployee, reloaded.Role)

	// Second profile for the same user is rejected
	w, _ = doJSON(t, router, http.MethodPost,
		"/admin/users/"+itoa(int(user.ID))+"/employee-profile",
		gin.H{"specialization": "electrical"})
	assertStatus(t, w, http.StatusConflict)
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	router := adminRouter(admin)

	w, _ := doJSON(t, router, http.MethodPatch,
		"/admin/users/"+itoa(int(admin.ID))+"/status", gin.H{"is_active": false})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	_, _ = createTestEmployee(t, db, "tech@example.com")
	vehicle := createTestVehicle(t, db, customer.ID, "ABC123")
	service := createTestService(t, db, "Oil Change")
	router := adminRouter(admin)

	appointment := models.Appointment{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		ServiceID:  service.ID,
		Date:       mustDate(t, "2026-09-08"),
		Time:       "09:00",
		Status:     models.AppointmentStatusCompleted,
	}
	require.NoError(t, db.Create(&appointment).Error)

	w, resp := doJSON(t, router, http.MethodGet, "/admin/dashboard/stats", nil)
	assertStatus(t, w, http.StatusOK)

	stats := resp["data"].(map[string]any)
	assert.EqualValues(t, 3, stats["total_users"])
	assert.EqualValues(t, 1, stats["total_customers"])
	assert.EqualValues(t, 1, stats["total_employees"])
	assert.EqualValues(t, 1, stats["total_vehicles"])
	assert.EqualValues(t, 1, stats["completed_appointments"])
}
