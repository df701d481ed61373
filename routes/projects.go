package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/scheduling"
)

// RegisterProjectRoutes registers the customer modification-request routes
func RegisterProjectRoutes(router *gin.RouterGroup) {
	router.POST("", createProject)
	router.POST("/", createProject)
	router.GET("/my-projects", getMyProjects)
	router.GET("/:id", getProject)
	router.DELETE("/:id", deleteProject)
}

// createProject submits a new modification request for one of the customer's vehicles
func createProject(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.EstimatedBudget <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid budget",
			"message": "Estimated budget must be greater than zero",
		})
		return
	}

	// The vehicle must belong to the requesting customer
	var vehicle models.Vehicle
	if err := database.DB.Where("id = ? AND customer_id = ?", req.VehicleID, userID).First(&vehicle).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Vehicle not found",
			"message": "Vehicle does not exist or does not belong to you",
		})
		return
	}

	project := models.Project{
		CustomerID:      userID,
		VehicleID:       req.VehicleID,
		Description:     req.Description,
		EstimatedBudget: req.EstimatedBudget,
		Status:          models.ProjectStatusPending,
	}

	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create project",
			"message": "Please try again",
		})
		return
	}

	database.DB.Preload("Vehicle").First(&project, project.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Modification request submitted successfully",
		"data":    project,
	})
}

// getMyProjects lists the customer's modification requests
func getMyProjects(c *gin.Context) {
	userID := c.GetUint("user_id")

	var projects []models.Project
	if err := database.DB.
		Preload("Vehicle").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch projects",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Projects retrieved successfully",
		"data":    projects,
		"count":   len(projects),
	})
}

// getProject returns a single modification request with its deletability
func getProject(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("user_role")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := database.DB.Preload("Vehicle").Preload("Customer").First(&project, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Project not found",
			"message": "Project does not exist",
		})
		return
	}

	if role == string(models.RoleCustomer) && project.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "You can only view your own projects",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project retrieved successfully",
		"data":    project,
		"deletable": scheduling.CanDeleteProject(
			string(project.Status), project.ApprovedCost),
	})
}

// deleteProject removes a request while it is still pending and uncosted
func deleteProject(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := database.DB.Where("id = ? AND customer_id = ?", id, userID).First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Project not found",
			"message": "Project does not exist or does not belong to you",
		})
		return
	}

	if !scheduling.CanDeleteProject(string(project.Status), project.ApprovedCost) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Deletion not allowed",
			"message": "This request has already been reviewed and can no longer be deleted",
		})
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete project",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Modification request deleted successfully",
	})
}
