package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelsdoc-server/models"
)

func authTestRouter() *gin.Engine {
	router := gin.New()
	group := router.Group("/auth")
	RegisterAuthRoutes(group)
	return router
}

func TestSignUpAndSignIn(t *testing.T) {
	setupTestDB(t)
	router := authTestRouter()

	w, resp := doJSON(t, router, http.MethodPost, "/auth/signup", gin.H{
		"full_name": "Jordan Blake",
		"email":     "Jordan@Example.com",
		"password":  "secret123",
	})
	assertStatus(t, w, http.StatusCreated)
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["refresh_token"])
	assert.Equal(t, "customer", resp["redirect_to"])

	// Email is normalized on the way in
	user := resp["user"].(map[string]any)
	assert.Equal(t, "jordan@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	// Sign in with a differently-cased email still works
	w, resp = doJSON(t, router, http.MethodPost, "/auth/signin", gin.H{
		"email":    "JORDAN@example.com",
		"password": "secret123",
	})
	assertStatus(t, w, http.StatusOK)
	assert.NotEmpty(t, resp["token"])
}

func TestSignUpDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	router := authTestRouter()

	body := gin.H{"full_name": "Jordan Blake", "email": "jordan@example.com", "password": "secret123"}
	w, _ := doJSON(t, router, http.MethodPost, "/auth/signup", body)
	assertStatus(t, w, http.StatusCreated)

	w, _ = doJSON(t, router, http.MethodPost, "/auth/signup", body)
	assertStatus(t, w, http.StatusConflict)
}

func TestSignInWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "user@example.com", models.RoleCustomer)
	router := authTestRouter()

	w, _ := doJSON(t, router, http.MethodPost, "/auth/signin", gin.H{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestSignInDeactivatedAccount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "user@example.com", models.RoleCustomer)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	router := authTestRouter()

	w, _ := doJSON(t, router, http.MethodPost, "/auth/signin", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestSignInReturnsEmployeeProfile(t *testing.T) {
	db := setupTestDB(t)
	_, profile := createTestEmployee(t, db, "tech@example.com")
	router := authTestRouter()

	w, resp := doJSON(t, router, http.MethodPost, "/auth/signin", gin.H{
		"email":    "tech@example.com",
		"password": "password123",
	})
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "employee", resp["redirect_to"])

	got := resp["employee_profile"].(map[string]any)
	assert.EqualValues(t, profile.ID, got["id"])
	assert.Equal(t, "engine", got["specialization"])
}

func TestRefreshTokenRotation(t *testing.T) {
	setupTestDB(t)
	router := authTestRouter()

	w, resp := doJSON(t, router, http.MethodPost, "/auth/signup", gin.H{
		"full_name": "Jordan Blake",
		"email":     "jordan@example.com",
		"password":  "secret123",
	})
	assertStatus(t, w, http.StatusCreated)
	original := resp["refresh_token"].(string)

	w, resp = doJSON(t, router, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": original})
	assertStatus(t, w, http.StatusOK)
	rotated := resp["refresh_token"].(string)
	assert.NotEqual(t, original, rotated)

	// The original token is single-use
	w, _ = doJSON(t, router, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": original})
	assertStatus(t, w, http.StatusUnauthorized)

	// The rotated one still works
	w, _ = doJSON(t, router, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": rotated})
	assertStatus(t, w, http.StatusOK)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	setupTestDB(t)
	router := authTestRouter()

	w, resp := doJSON(t, router, http.MethodPost, "/auth/signup", gin.H{
		"full_name": "Jordan Blake",
		"email":     "jordan@example.com",
		"password":  "secret123",
	})
	assertStatus(t, w, http.StatusCreated)
	token := resp["refresh_token"].(string)

	w, _ = doJSON(t, router, http.MethodPost, "/auth/logout", gin.H{"refresh_token": token})
	assertStatus(t, w, http.StatusOK)

	w, _ = doJSON(t, router, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": token})
	assertStatus(t, w, http.StatusUnauthorized)
}
