package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taxdesk/backend/models"
	"github.com/taxdesk/backend/services"
)

var (
	eventHub *services.EventHub
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // CORS policy already allows all origins
		},
	}
)

// SetEventHub sets the event hub for the handlers
func SetEventHub(hub *services.EventHub) {
	eventHub = hub
}

// publishInvoiceEvent forwards an event to the hub when one is wired.
func publishInvoiceEvent(ev services.InvoiceEvent) {
	if eventHub == nil {
		return
	}
	if err := eventHub.Publish(ev); err != nil {
		log.Printf("⚠️ Failed to publish invoice event: %v", err)
	}
}

// HandleEventsWebSocket handles GET /ws/events - live invoice events for
// admin dashboards. Browsers cannot set headers on WebSocket dials, so
// the bearer token is also accepted as a query parameter.
func HandleEventsWebSocket(c *gin.Context) {
	if eventHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event hub not initialized"})
		return
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
			tokenString = auth[7:]
		}
	}
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if role, _ := claims["role"].(string); role != models.RoleAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	sub, _ := claims["sub"].(float64)
	client := services.NewEventClient(eventHub, conn, uint(sub), c.ClientIP())

	eventHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GetEventHubStats handles GET /api/events/stats
func GetEventHubStats(c *gin.Context) {
	if eventHub == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats := eventHub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"clients":   stats.Clients,
		"published": stats.Published,
		"subject":   stats.Subject,
	})
}
