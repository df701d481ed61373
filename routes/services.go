package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
)

// RegisterServiceRoutes registers the customer-facing service catalog routes
func RegisterServiceRoutes(router *gin.RouterGroup) {
	router.GET("", getActiveServices)
	router.GET("/", getActiveServices)
	router.GET("/:id", getService)
}

// getActiveServices lists the services the shop currently offers
func getActiveServices(c *gin.Context) {
	var catalog []models.Service
	if err := database.DB.
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch services",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Services retrieved successfully",
		"data":    catalog,
		"count":   len(catalog),
	})
}

func getService(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Service not found",
			"message": "Service does not exist or is no longer offered",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service retrieved successfully",
		"data":    service,
	})
}
