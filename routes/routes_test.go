package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wheelsdoc-server/config"
	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Load()
}

// setupTestDB gives each test an isolated in-memory database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// In-memory sqlite loses the database on a second connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}

// authAs stands in for the auth middleware in handler tests
func authAs(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("user_role", string(user.Role))
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		FullName:     "Test " + string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestEmployee(t *testing.T, db *gorm.DB, email string) (models.User, models.EmployeeProfile) {
	t.Helper()

	user := createTestUser(t, db, email, models.RoleEmployee)
	profile := models.EmployeeProfile{
		UserID:         user.ID,
		Specialization: "engine",
		HourlyRate:     45,
		IsAvailable:    true,
	}
	require.NoError(t, db.Create(&profile).Error)
	return user, profile
}

func createTestVehicle(t *testing.T, db *gorm.DB, customerID uint, plate string) models.Vehicle {
	t.Helper()

	vehicle := models.Vehicle{
		CustomerID:  customerID,
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2020,
		PlateNumber: plate,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func createTestService(t *testing.T, db *gorm.DB, name string) models.Service {
	t.Helper()

	service := models.Service{
		Name:      name,
		BasePrice: 49.99,
		Duration:  "1 hour",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&service).Error)
	return service
}

// doJSON performs a request with a JSON body and decodes the JSON response
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}
