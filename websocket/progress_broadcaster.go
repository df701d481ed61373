package websocket

import (
	"log"
	"time"

	"wheelsdoc-server/models"
)

// ProgressBroadcaster pushes service-progress updates to connected clients so
// customer and admin dashboards reflect employee actions without polling.
type ProgressBroadcaster struct {
	hub *Hub
}

// NewProgressBroadcaster creates a new progress broadcaster
func NewProgressBroadcaster(hub *Hub) *ProgressBroadcaster {
	return &ProgressBroadcaster{hub: hub}
}

// BroadcastServiceLog pushes a freshly appended service log to the
// appointment's customer and to every connected admin.
func (pb *ProgressBroadcaster) BroadcastServiceLog(appointment models.Appointment, entry models.ServiceLog) {
	if pb.hub == nil {
		log.Printf("⚠️ WebSocket hub not available for progress broadcast")
		return
	}

	message := &Message{
		Type:      "service_progress",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"appointment_id":     appointment.ID,
			"appointment_status": appointment.Status,
			"status":             entry.Status,
			"progress":           entry.Progress,
			"hours_worked":       entry.HoursWorked,
			"notes":              entry.Notes,
			"logged_at":          entry.CreatedAt,
		},
	}

	pb.hub.SendToUser(appointment.CustomerID, message)
	pb.hub.SendToRole("admin", message)
}
