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

func projectRouter(user models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/projects")
	group.Use(authAs(user))
	RegisterProjectRoutes(group)
	return router
}

func createTestProject(t *testing.T, db *gorm.DB, customerID, vehicleID uint) models.Project {
	t.Helper()

	project := models.Project{
		CustomerID:      customerID,
		VehicleID:       vehicleID,
		Description:     "Lift kit and all-terrain tires",
		EstimatedBudget: 3500,
		Status:          models.ProjectStatusPending,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func TestCreateProject(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	router := projectRouter(customer)

	w, resp := doJSON(t, router, http.MethodPost, "/projects", gin.H{
		"vehicle_id":       vehicle.ID,
		"description":      "Custom exhaust system",
		"estimated_budget": 1200,
	})
	assertStatus(t, w, http.StatusCreated)

	data := resp["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Nil(t, data["approved_cost"])
}

func TestCreateProjectRejectsForeignVehicle(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, owner.ID, "MOD001")

	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
	router := projectRouter(other)

	w, _ := doJSON(t, router, http.MethodPost, "/projects", gin.H{
		"vehicle_id":       vehicle.ID,
		"description":      "Custom exhaust system",
		"estimated_budget": 1200,
	})
	assertStatus(t, w, http.StatusNotFound)
}

func TestDeletePendingUncostedProject(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	project := createTestProject(t, db, customer.ID, vehicle.ID)
	router := projectRouter(customer)

	w, _ := doJSON(t, router, http.MethodDelete, "/projects/"+itoa(int(project.ID)), nil)
	assertStatus(t, w, http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteLockedProject(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	router := projectRouter(customer)

	cost := 2800.0
	zero := 0.0

	tests := []struct {
		name   string
		status models.ProjectStatus
		cost   *float64
	}{
		{"approved with cost", models.ProjectStatusApproved, &cost},
		{"rejected", models.ProjectStatusRejected, nil},
		{"in progress", models.ProjectStatusInProgress, &cost},
		{"completed", models.ProjectStatusCompleted, &cost},
		{"pending with zero cost", models.ProjectStatusPending, &zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := createTestProject(t, db, customer.ID, vehicle.ID)
			require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).
				Updates(map[string]any{"status": tt.status, "approved_cost": tt.cost}).Error)

			w, resp := doJSON(t, router, http.MethodDelete, "/projects/"+itoa(int(project.ID)), nil)
			assertStatus(t, w, http.StatusForbidden)
			assert.Equal(t, "Deletion not allowed", resp["error"])

			var count int64
			require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error)
			assert.EqualValues(t, 1, count)
		})
	}
}

func TestDeleteOtherCustomersProject(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, owner.ID, "MOD001")
	project := createTestProject(t, db, owner.ID, vehicle.ID)

	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
	router := projectRouter(other)

	w, _ := doJSON(t, router, http.MethodDelete, "/projects/"+itoa(int(project.ID)), nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestGetProjectReportsDeletability(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, customer.ID, "MOD001")
	project := createTestProject(t, db, customer.ID, vehicle.ID)
	router := projectRouter(customer)

	w, resp := doJSON(t, router, http.MethodGet, "/projects/"+itoa(int(project.ID)), nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, true, resp["deletable"])

	cost := 1500.0
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).
		Updates(map[string]any{"status": models.ProjectStatusApproved, "approved_cost": cost}).Error)

	w, resp = doJSON(t, router, http.MethodGet, "/projects/"+itoa(int(project.ID)), nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, false, resp["deletable"])
}
