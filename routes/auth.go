package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/services"
	"wheelsdoc-server/utils"
)

// SignUpRequest represents the registration request
type SignUpRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// SignInRequest represents the sign in request
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	router.POST("/signup", signUp)
	router.POST("/signin", signIn)
	router.POST("/register", signUp) // Alias for signup
	router.POST("/login", signIn)    // Alias for signin
	router.POST("/refresh", refreshToken)
	router.POST("/logout", logout)
}

// signUp handles customer registration
func signUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid email",
			"message": "Please provide a valid email address",
		})
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := database.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "User already exists",
			"message": "A user with this email already exists",
		})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Password hashing failed",
			"message": "Failed to process password",
		})
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: hashedPassword,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "User creation failed",
			"message": "Failed to create user account",
		})
		return
	}

	tokenService := services.NewTokenService()
	pair, err := tokenService.GenerateTokenPair(&user, c.GetHeader("X-Device-ID"), c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "User registered successfully",
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          user,
		"redirect_to":   redirectFor(user.Role),
	})
}

// signIn handles user authentication
func signIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	email := utils.NormalizeEmail(req.Email)

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "Invalid email or password",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Account deactivated",
			"message": "Your account has been deactivated",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "Invalid email or password",
		})
		return
	}

	tokenService := services.NewTokenService()
	pair, err := tokenService.GenerateTokenPair(&user, c.GetHeader("X-Device-ID"), c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	// Employees get their profile alongside the session
	var employeeProfile *models.EmployeeProfile
	if user.Role == models.RoleEmployee {
		var profile models.EmployeeProfile
		if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			employeeProfile = &profile
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Authentication successful",
		"token":            pair.AccessToken,
		"refresh_token":    pair.RefreshToken,
		"expires_in":       pair.ExpiresIn,
		"user":             user,
		"employee_profile": employeeProfile,
		"redirect_to":      redirectFor(user.Role),
	})
}

func redirectFor(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "admin"
	case models.RoleEmployee:
		return "employee"
	default:
		return "customer"
	}
}

// GetCurrentUser returns the current authenticated user's profile
func GetCurrentUser(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not authenticated",
			"message": "Please log in to access your profile",
		})
		return
	}

	userModel, ok := user.(models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Invalid user data",
			"message": "Failed to retrieve user information",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile retrieved successfully",
		"data":    userModel,
	})
}

// refreshToken handles token rotation
func refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	tokenService := services.NewTokenService()
	pair, user, err := tokenService.RotateRefreshToken(req.RefreshToken, c.GetHeader("X-Device-ID"), c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid refresh token",
			"message": "Refresh token is invalid or expired",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Token refreshed successfully",
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          user,
	})
}

// logout revokes the user's refresh tokens
func logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		var stored models.RefreshToken
		if err := database.DB.Where("token = ?", req.RefreshToken).First(&stored).Error; err == nil {
			stored.Revoke()
			database.DB.Save(&stored)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
		"success": true,
	})
}
