package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixmycity-be/models"
	"fixmycity-be/services"
	"fixmycity-be/store"
)

// ListWorkOrders returns a team's task list, newest first.
func ListWorkOrders(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		team := c.Query("team")
		status := models.WorkOrderStatus(c.Query("status"))

		orders, err := st.ListWorkOrders(ctx, team, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workOrders": orders})
	}
}

// SubmitProof attaches a completion photo to a work order and submits it for
// admin review.
func SubmitProof(lc *services.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
			return
		}

		header, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Completion photo is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded photo.", "details": err.Error()})
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		order, err := lc.SubmitProof(ctx, id, header.Filename, file, header.Header.Get("Content-Type"))
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		case errors.Is(err, store.ErrNotEligible):
			c.JSON(http.StatusConflict, gin.H{"error": "Work order is already finished or awaiting review"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit for review.", "details": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Submitted for review", "workOrder": order})
		}
	}
}
