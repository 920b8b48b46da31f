package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fixmycity-be/services"
)

// Chat drives the rule-based helper bot. A turn is either a session start
// (action "start" with a language), a quick-action tap, or free text.
func Chat(bot *services.Bot) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			SessionID string `json:"session_id,omitempty"`
			Language  string `json:"language,omitempty"`
			Action    string `json:"action,omitempty"`
			Message   string `json:"message,omitempty"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sessionID := input.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		var reply services.Reply
		switch {
		case input.Action == "start":
			reply = bot.Start(sessionID, input.Language)
		case input.Action != "":
			reply = bot.QuickAction(sessionID, input.Action)
		case input.Message != "":
			reply = bot.Message(sessionID, input.Message)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either action or message is required"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessionId":        sessionID,
			"replies":          reply.Replies,
			"showQuickActions": reply.ShowQuickActions,
			"quickActions":     reply.QuickActions,
		})
	}
}
