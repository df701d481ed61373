package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
)

// RegisterNotificationRoutes registers the notification routes
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	router.GET("", getNotifications)
	router.GET("/", getNotifications)
	router.GET("/unread-count", getUnreadCount)
	router.POST("/mark-read/:id", markNotificationRead)
	router.POST("/mark-all-read", markAllNotificationsRead)
}

func getNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	var notifications []models.Notification
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch notifications",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications retrieved successfully",
		"data":    notifications,
		"count":   len(notifications),
	})
}

func getUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count notifications",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func markNotificationRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update notification",
			"message": "Please try again",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Notification not found",
			"message": "Notification does not exist or does not belong to you",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update notifications",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
