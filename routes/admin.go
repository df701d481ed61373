package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/services"
	"wheelsdoc-server/utils"
)

// AdminLogin handles admin login
func AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Find user by email
	var user models.User
	if err := database.DB.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		log.Printf("❌ Admin login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Check if user is admin
	if user.Role != models.RoleAdmin {
		log.Printf("❌ Login attempt by non-admin user %d with role %s", user.ID, user.Role)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
		return
	}

	// Check if user is active
	if !user.IsActive {
		log.Printf("❌ Login attempt by inactive admin user %d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		return
	}

	// Verify password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Printf("❌ Invalid password for admin user %d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Generate tokens
	tokenService := services.NewTokenService()
	pair, err := tokenService.GenerateTokenPair(&user, c.GetHeader("X-Device-ID"), c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		log.Printf("❌ Failed to generate tokens for admin user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("✅ Admin user %d logged in successfully", user.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Login successful",
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": gin.H{
			"id":         user.ID,
			"full_name":  user.FullName,
			"email":      user.Email,
			"role":       user.Role,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
			"updated_at": user.UpdatedAt,
		},
	})
}

// GetCurrentAdmin returns current admin user
func GetCurrentAdmin(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":         user.ID,
			"full_name":  user.FullName,
			"email":      user.Email,
			"role":       user.Role,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
			"updated_at": user.UpdatedAt,
		},
	})
}

// GetDashboardStats returns dashboard statistics
func GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalUsers            int64   `json:"total_users"`
		TotalCustomers        int64   `json:"total_customers"`
		TotalEmployees        int64   `json:"total_employees"`
		AvailableEmployees    int64   `json:"available_employees"`
		TotalVehicles         int64   `json:"total_vehicles"`
		TotalAppointments     int64   `json:"total_appointments"`
		ScheduledAppointments int64   `json:"scheduled_appointments"`
		CompletedAppointments int64   `json:"completed_appointments"`
		CancelledAppointments int64   `json:"cancelled_appointments"`
		PendingProjects       int64   `json:"pending_projects"`
		TotalProjects         int64   `json:"total_projects"`
		TotalHoursLogged      float64 `json:"total_hours_logged"`
		ApprovedProjectValue  float64 `json:"approved_project_value"`
	}

	// Count users by role
	database.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.TotalCustomers)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleEmployee).Count(&stats.TotalEmployees)
	database.DB.Model(&models.EmployeeProfile{}).Where("is_available = ?", true).Count(&stats.AvailableEmployees)

	database.DB.Model(&models.Vehicle{}).Count(&stats.TotalVehicles)

	// Count appointments by status
	database.DB.Model(&models.Appointment{}).Count(&stats.TotalAppointments)
	database.DB.Model(&models.Appointment{}).Where("status IN (?)",
		[]string{string(models.AppointmentStatusScheduled), string(models.AppointmentStatusConfirmed)}).
		Count(&stats.ScheduledAppointments)
	database.DB.Model(&models.Appointment{}).Where("status = ?", models.AppointmentStatusCompleted).Count(&stats.CompletedAppointments)
	database.DB.Model(&models.Appointment{}).Where("status = ?", models.AppointmentStatusCancelled).Count(&stats.CancelledAppointments)

	// Count projects
	database.DB.Model(&models.Project{}).Count(&stats.TotalProjects)
	database.DB.Model(&models.Project{}).Where("status = ?", models.ProjectStatusPending).Count(&stats.PendingProjects)

	// Aggregate work and committed budgets
	database.DB.Model(&models.ServiceLog{}).Select("COALESCE(SUM(hours_worked), 0)").Scan(&stats.TotalHoursLogged)
	database.DB.Model(&models.Project{}).Where("approved_cost IS NOT NULL").
		Select("COALESCE(SUM(approved_cost), 0)").Scan(&stats.ApprovedProjectValue)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetAllUsers returns all users with pagination
func GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	role := c.Query("role")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		log.Printf("❌ Failed to count users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	// Get users with pagination
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("❌ Failed to fetch users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetUserById returns user by ID
func GetUserById(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	data := gin.H{
		"id":         user.ID,
		"full_name":  user.FullName,
		"email":      user.Email,
		"role":       user.Role,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}

	if user.Role == models.RoleEmployee {
		var profile models.EmployeeProfile
		if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			data["employee_profile"] = profile
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// UpdateUserStatus activates or deactivates a user account
func UpdateUserStatus(c *gin.Context) {
	userID := c.Param("id")

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Prevent admin from deactivating themselves
	adminID := c.GetUint("user_id")
	if user.ID == adminID && !*req.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	user.IsActive = *req.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		log.Printf("❌ Failed to update user status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	// Deactivation also kills the user's sessions
	if !user.IsActive {
		tokenService := services.NewTokenService()
		if err := tokenService.RevokeUserTokens(user.ID); err != nil {
			log.Printf("⚠️ Failed to revoke tokens for user %d: %v", user.ID, err)
		}
	}

	log.Printf("✅ User %d status updated to %v by admin %d", user.ID, user.IsActive, adminID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User status updated successfully",
		"data":    user,
	})
}

// DeleteUser deletes a user
func DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	adminID := c.GetUint("user_id")

	// Prevent admin from deleting themselves
	if userID == strconv.Itoa(int(adminID)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		log.Printf("❌ Failed to delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	log.Printf("✅ User %d deleted by admin %d", user.ID, adminID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// CreateEmployeeProfile promotes a user to employee and creates their profile
func CreateEmployeeProfile(c *gin.Context) {
	userID := c.Param("id")

	var req models.EmployeeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "message": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.EmployeeProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already has an employee profile"})
		return
	}

	profile := models.EmployeeProfile{
		UserID:         user.ID,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		HourlyRate:     req.HourlyRate,
		IsAvailable:    true,
	}

	if err := database.DB.Create(&profile).Error; err != nil {
		log.Printf("❌ Failed to create employee profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee profile"})
		return
	}

	if user.Role != models.RoleEmployee {
		user.Role = models.RoleEmployee
		if err := database.DB.Save(&user).Error; err != nil {
			log.Printf("❌ Failed to update role for user %d: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user role"})
			return
		}
	}

	log.Printf("✅ Employee profile created for user %d", user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Employee profile created successfully",
		"data":    profile,
	})
}

// GetAllAppointments returns all appointments with pagination and filters
func GetAllAppointments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")
	date := c.Query("date")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	var appointments []models.Appointment
	var total int64

	query := database.DB.Model(&models.Appointment{}).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Service").
		Preload("Employee.User")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if date != "" {
		query = query.Where("date = ?", date)
	}

	if err := query.Count(&total).Error; err != nil {
		log.Printf("❌ Failed to count appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count appointments"})
		return
	}

	if err := query.Offset(offset).Limit(limit).Order("date DESC, time ASC").Find(&appointments).Error; err != nil {
		log.Printf("❌ Failed to fetch appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetAppointmentById returns a single appointment with its full service history
func GetAppointmentById(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := database.DB.
		Preload("Customer").
		Preload("Vehicle").
		Preload("Service").
		Preload("Employee.User").
		Preload("ServiceLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&appointment, appointmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointment,
	})
}

// ConfirmAppointment confirms a scheduled appointment before a technician is chosen
func ConfirmAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := database.DB.First(&appointment, appointmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	if appointment.Status != models.AppointmentStatusScheduled {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"message": "Only scheduled appointments can be confirmed",
		})
		return
	}

	appointment.Status = models.AppointmentStatusConfirmed
	if err := database.DB.Save(&appointment).Error; err != nil {
		log.Printf("❌ Failed to confirm appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm appointment"})
		return
	}

	notification := models.Notification{
		UserID: appointment.CustomerID,
		Title:  "Appointment confirmed",
		Body:   "Your appointment has been confirmed.",
		Type:   "appointment_confirmed",
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("⚠️ Failed to create notification: %v", err)
	}

	log.Printf("✅ Appointment %d confirmed", appointment.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment confirmed",
		"data":    appointment,
	})
}

// AssignEmployee assigns an available employee to an appointment and confirms it
func AssignEmployee(c *gin.Context) {
	appointmentID := c.Param("id")

	var req struct {
		EmployeeID uint `json:"employee_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, appointmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	if appointment.Status == models.AppointmentStatusCancelled ||
		appointment.Status == models.AppointmentStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Appointment closed",
			"message": "Cannot assign an employee to a cancelled or completed appointment",
		})
		return
	}

	var profile models.EmployeeProfile
	if err := database.DB.Preload("User").First(&profile, req.EmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	if !profile.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee is not available"})
		return
	}

	appointment.EmployeeID = &profile.ID
	if appointment.Status == models.AppointmentStatusScheduled {
		appointment.Status = models.AppointmentStatusConfirmed
	}

	if err := database.DB.Save(&appointment).Error; err != nil {
		log.Printf("❌ Failed to assign employee: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign employee"})
		return
	}

	database.DB.Model(&models.EmployeeProfile{}).
		Where("id = ?", profile.ID).
		Update("active_jobs", gorm.Expr("active_jobs + 1"))

	// Notify the customer their appointment is confirmed
	notification := models.Notification{
		UserID: appointment.CustomerID,
		Title:  "Appointment confirmed",
		Body:   "Your appointment has been confirmed and a technician has been assigned.",
		Type:   "appointment_confirmed",
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("⚠️ Failed to create notification: %v", err)
	}

	log.Printf("✅ Employee %d assigned to appointment %d", profile.ID, appointment.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee assigned successfully",
		"data":    appointment,
	})
}

// GetAllProjects returns all modification requests with pagination and filters
func GetAllProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	var projects []models.Project
	var total int64

	query := database.DB.Model(&models.Project{}).Preload("Customer").Preload("Vehicle")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		log.Printf("❌ Failed to count projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects"})
		return
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Printf("❌ Failed to fetch projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projects,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// DecideProject applies an admin decision to a modification request
func DecideProject(c *gin.Context) {
	projectID := c.Param("id")

	var req models.ProjectDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "message": err.Error()})
		return
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var body string
	switch req.Action {
	case "approve":
		if project.Status != models.ProjectStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending requests can be approved"})
			return
		}
		if req.ApprovedCost == nil || *req.ApprovedCost <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Approved cost is required to approve a request"})
			return
		}
		project.Status = models.ProjectStatusApproved
		project.ApprovedCost = req.ApprovedCost
		body = "Your modification request has been approved."
	case "reject":
		if project.Status != models.ProjectStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending requests can be rejected"})
			return
		}
		project.Status = models.ProjectStatusRejected
		body = "Your modification request has been rejected."
	case "start":
		if project.Status != models.ProjectStatusApproved {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only approved requests can be started"})
			return
		}
		project.Status = models.ProjectStatusInProgress
		body = "Work on your modification request has started."
	case "complete":
		if project.Status != models.ProjectStatusInProgress {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only in-progress requests can be completed"})
			return
		}
		project.Status = models.ProjectStatusCompleted
		body = "Your modification request has been completed."
	}

	if err := database.DB.Save(&project).Error; err != nil {
		log.Printf("❌ Failed to update project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	notification := models.Notification{
		UserID: project.CustomerID,
		Title:  "Modification request update",
		Body:   body,
		Type:   "project_decision",
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("⚠️ Failed to create notification: %v", err)
	}

	log.Printf("✅ Project %d decision %q by admin %d", project.ID, req.Action, c.GetUint("user_id"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project updated successfully",
		"data":    project,
	})
}
