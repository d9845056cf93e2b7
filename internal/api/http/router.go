package http

import (
	"sluff/internal/api/ws"
	"sluff/internal/service"

	"github.com/gin-gonic/gin"
)

func NewRouter(svc *service.Service, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	// WebSocket for table play and lobby updates
	r.GET("/ws", hub.HandleWS)

	// --- LOBBY ENDPOINTS ---
	r.GET("/lobby", LobbyHandler(svc))
	r.GET("/tables/:tableId/state", TableStateHandler(svc))

	// --- FEEDBACK ENDPOINTS ---
	r.POST("/feedback", FeedbackHandler(svc))

	r.GET("/healthz", HealthHandler())

	return r
}
