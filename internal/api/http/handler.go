package http

import (
	"net/http"
	"strconv"

	"sluff/internal/ledger"
	"sluff/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// LobbyHandler returns the same snapshot the websocket pushes, for clients
// polling before they connect.
func LobbyHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.LobbyState())
	}
}

// TableStateHandler returns one table as a given user would see it. Pass no
// userId to get the spectator view.
func TableStateHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID := c.Param("tableId")
		userID, _ := strconv.ParseInt(c.Query("userId"), 10, 64)
		state, ok := svc.TableState(tableID, userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// FeedbackHandler stores a player report along with the game state the client
// captured at submission time.
func FeedbackHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeedbackRequest
		if err := c.BindJSON(&req); err != nil || req.Feedback == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "feedback text required"})
			return
		}
		fb := &ledger.Feedback{
			UserID:    req.UserID,
			Username:  req.Username,
			Text:      req.Feedback,
			TableID:   req.TableID,
			GameState: datatypes.JSON(req.GameState),
		}
		if err := svc.SubmitFeedback(c.Request.Context(), fb); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store feedback"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
