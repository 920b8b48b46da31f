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

// ListSubmissions feeds the admin "Submissions" tab.
func ListSubmissions(st store.Store) gin.HandlerFunc {
	return listPending(st, models.SourceRawSubmissions, "submissions")
}

// ListPredicted feeds the admin "Predicted" tab.
func ListPredicted(st store.Store) gin.HandlerFunc {
	return listPending(st, models.SourcePredictedIssues, "predicted")
}

func listPending(st store.Store, source models.Source, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		subs, err := st.ListSubmissions(ctx, source)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submissions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{key: subs})
	}
}

// ListIssues feeds the admin "Active Issues" tab.
func ListIssues(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		issues, err := st.ListIssues(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"issues": issues})
	}
}

// ListPendingVerification feeds the admin "Verification" tab: work orders
// whose proof awaits final approval.
func ListPendingVerification(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		orders, err := st.ListWorkOrders(ctx, "", models.OrderPendingAdminApproval)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workOrders": orders})
	}
}

func parseSource(raw string) (models.Source, bool) {
	if raw == "" {
		return models.SourceRawSubmissions, true
	}
	source := models.Source(raw)
	return source, models.ValidSource(source)
}

// ApproveSubmission promotes a pending submission into an Issue + WorkOrder
// pair assigned to a team.
func ApproveSubmission(lc *services.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID     string `json:"id" binding:"required"`
			Source string `json:"source,omitempty"`
			Team   string `json:"team,omitempty"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		source, ok := parseSource(input.Source)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source collection"})
			return
		}
		id, err := primitive.ObjectIDFromHex(input.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		issue, order, err := lc.Approve(ctx, source, id, input.Team)
		switch {
		case errors.Is(err, services.ErrTeamRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please assign a team."})
		case errors.Is(err, services.ErrUnknownTeam):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown team"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve.", "details": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{
				"message":   "Submission approved",
				"issue":     issue,
				"workOrder": order,
			})
		}
	}
}

// RejectSubmission deletes a pending submission outright.
func RejectSubmission(lc *services.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID     string `json:"id" binding:"required"`
			Source string `json:"source,omitempty"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		source, ok := parseSource(input.Source)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source collection"})
			return
		}
		id, err := primitive.ObjectIDFromHex(input.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		err = lc.Reject(ctx, source, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject.", "details": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Submission rejected"})
		}
	}
}

// FinalApprove confirms a work order's completion proof, completing both the
// work order and its issue.
func FinalApprove(lc *services.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			WorkOrderID string `json:"work_order_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := primitive.ObjectIDFromHex(input.WorkOrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		err = lc.FinalApproval(ctx, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to give final approval.", "details": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Work order completed"})
		}
	}
}
