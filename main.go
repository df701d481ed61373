package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"wheelsdoc-server/config"
	"wheelsdoc-server/database"
	"wheelsdoc-server/jobs"
	"wheelsdoc-server/middleware"
	"wheelsdoc-server/models"
	"wheelsdoc-server/routes"
	"wheelsdoc-server/services"
	ws "wheelsdoc-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = []string{origins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Device-ID")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "WheelsDoc AutoCare server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Live service-progress WebSocket
	progressHub := ws.NewHub()
	go progressHub.Run()
	routes.InitProgressHub(progressHub)

	progressHandler := ws.NewProgressHandler(progressHub)
	router.GET("/api/v1/ws/progress", progressHandler.HandleProgress)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/auth/me", routes.GetCurrentUser)

			// Service catalog (any authenticated user)
			serviceRoutes := protected.Group("/services")
			routes.RegisterServiceRoutes(serviceRoutes)

			// Customer vehicles
			vehicleRoutes := protected.Group("/vehicles")
			routes.RegisterVehicleRoutes(vehicleRoutes)

			// Appointments and slot availability
			appointmentRoutes := protected.Group("/appointments")
			routes.RegisterAppointmentRoutes(appointmentRoutes)

			// Modification requests
			projectRoutes := protected.Group("/projects")
			routes.RegisterProjectRoutes(projectRoutes)

			// Notifications
			notificationRoutes := protected.Group("/notifications")
			routes.RegisterNotificationRoutes(notificationRoutes)

			// Employee work tracking
			employeeRoutes := protected.Group("/employee")
			employeeRoutes.Use(middleware.RequireRole(models.RoleEmployee))
			routes.RegisterEmployeeRoutes(employeeRoutes)
		}

		// Admin authentication routes (no authentication required)
		adminAuth := api.Group("/admin/auth")
		adminAuth.Use(middleware.AuthRateLimitMiddleware())
		adminAuth.POST("/login", routes.AdminLogin)

		// Admin routes (protected with admin authentication)
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware())
		{
			// Admin current user
			adminRoutes.GET("/auth/me", routes.GetCurrentAdmin)

			// Admin dashboard
			adminRoutes.GET("/dashboard/stats", routes.GetDashboardStats)

			// Admin user management
			adminRoutes.GET("/users", routes.GetAllUsers)
			adminRoutes.GET("/users/:id", routes.GetUserById)
			adminRoutes.PATCH("/users/:id/status", routes.UpdateUserStatus)
			adminRoutes.DELETE("/users/:id", routes.DeleteUser)
			adminRoutes.POST("/users/:id/employee-profile", routes.CreateEmployeeProfile)

			// Admin appointment management
			adminRoutes.GET("/appointments", routes.GetAllAppointments)
			adminRoutes.GET("/appointments/:id", routes.GetAppointmentById)
			adminRoutes.POST("/appointments/:id/confirm", routes.ConfirmAppointment)
			adminRoutes.POST("/appointments/:id/assign", routes.AssignEmployee)

			// Admin modification request management
			adminRoutes.GET("/projects", routes.GetAllProjects)
			adminRoutes.POST("/projects/:id/decision", routes.DecideProject)

			// Admin services management
			adminRoutes.GET("/services", routes.GetAllServices)
			adminRoutes.POST("/services", routes.CreateService)
			adminRoutes.PUT("/services/:id", routes.UpdateService)
			adminRoutes.DELETE("/services/:id", routes.DeleteService)

			// Admin parts inventory
			adminRoutes.GET("/parts", routes.GetAllParts)
			adminRoutes.POST("/parts", routes.CreatePart)
			adminRoutes.PUT("/parts/:id", routes.UpdatePartStock)
			adminRoutes.DELETE("/parts/:id", routes.DeletePart)
		}
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start background jobs
	reminderJob := jobs.NewReminderJob()
	reminderJob.Start()
	defer reminderJob.Stop()

	// Start token cleanup job
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			tokenService := services.NewTokenService()
			if err := tokenService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
