package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/utils"
)

// ProgressHandler upgrades authenticated clients onto the progress hub
type ProgressHandler struct {
	hub *Hub
}

// NewProgressHandler creates a new progress websocket handler
func NewProgressHandler(hub *Hub) *ProgressHandler {
	return &ProgressHandler{hub: hub}
}

// HandleProgress authenticates via the token query parameter (browsers cannot
// set headers on websocket upgrades) and joins the client to the hub.
func (h *ProgressHandler) HandleProgress(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Token required",
			"message": "Please provide a valid token in query parameters",
		})
		return
	}

	claims, err := utils.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid token",
			"message": "Token is invalid or expired",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not found",
			"message": "User associated with token not found",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User inactive",
			"message": "User account is deactivated",
		})
		return
	}

	log.Printf("🔌 Progress websocket connection for user %d (%s)", user.ID, user.Role)
	ServeWebSocket(h.hub, c.Writer, c.Request, user.ID, string(user.Role))
}
