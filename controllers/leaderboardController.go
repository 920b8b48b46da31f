package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fixmycity-be/services"
)

// Leaderboard returns the top community contributors by points.
func Leaderboard(lb *services.Leaderboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lb == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Leaderboard is not configured"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 || limit > 100 {
			limit = 10
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		entries, err := lb.Top(ctx, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
	}
}
