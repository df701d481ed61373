package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wheelsdoc-server/models"
)

func vehicleRouter(user models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/vehicles")
	group.Use(authAs(user))
	RegisterVehicleRoutes(group)
	return router
}

func TestCreateVehicleNormalizesPlate(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	router := vehicleRouter(customer)

	w, resp := doJSON(t, router, http.MethodPost, "/vehicles", gin.H{
		"make":         "Honda",
		"model":        "Civic",
		"year":         2021,
		"plate_number": "  ab123cd ",
	})
	assertStatus(t, w, http.StatusCreated)
	assert.Equal(t, "AB123CD", resp["data"].(map[string]any)["plate_number"])
}

func TestCreateVehicleDuplicatePlate(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	router := vehicleRouter(customer)

	body := gin.H{"make": "Honda", "model": "Civic", "year": 2021, "plate_number": "AB123CD"}
	w, _ := doJSON(t, router, http.MethodPost, "/vehicles", body)
	assertStatus(t, w, http.StatusCreated)

	w, _ = doJSON(t, router, http.MethodPost, "/vehicles", body)
	assertStatus(t, w, http.StatusConflict)
}

func TestGetVehicleAccessControl(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	vehicle := createTestVehicle(t, db, owner.ID, "ABC123")

	// Owner can read it
	w, _ := doJSON(t, vehicleRouter(owner), http.MethodGet, "/vehicles/"+itoa(int(vehicle.ID)), nil)
	assertStatus(t, w, http.StatusOK)

	// Another customer cannot
	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
	w, _ = doJSON(t, vehicleRouter(other), http.MethodGet, "/vehicles/"+itoa(int(vehicle.ID)), nil)
	assertStatus(t, w, http.StatusForbidden)

	// An employee can, for service context
	employeeUser, _ := createTestEmployee(t, db, "tech@example.com")
	w, _ = doJSON(t, vehicleRouter(employeeUser), http.MethodGet, "/vehicles/"+itoa(int(vehicle.ID)), nil)
	assertStatus(t, w, http.StatusOK)
}

func TestGetMyVehicles(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
	createTestVehicle(t, db, customer.ID, "AAA111")
	createTestVehicle(t, db, customer.ID, "BBB222")
	createTestVehicle(t, db, other.ID, "CCC333")

	w, resp := doJSON(t, vehicleRouter(customer), http.MethodGet, "/vehicles/my-vehicles", nil)
	assertStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 2, resp["count"])
}
