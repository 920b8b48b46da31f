package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkOrderStatus enum. Designed flow only ever moves forward:
// assigned -> (dispatched) -> pending_admin_approval -> completed.
type WorkOrderStatus string

const (
	OrderAssigned             WorkOrderStatus = "assigned"
	OrderDispatched           WorkOrderStatus = "dispatched"
	OrderPendingAdminApproval WorkOrderStatus = "pending_admin_approval"
	// OrderResolved is a legacy value still present on old documents; it is
	// treated as finished on the read side and never written by transitions.
	OrderResolved  WorkOrderStatus = "resolved"
	OrderCompleted WorkOrderStatus = "completed"
)

// ProofEligible reports whether a work order in this state may still accept
// completion proof, i.e. it is not finished and not already awaiting review.
func (s WorkOrderStatus) ProofEligible() bool {
	switch s {
	case OrderCompleted, OrderResolved, OrderPendingAdminApproval:
		return false
	}
	return true
}

// WorkOrder is the assignable unit of work tied 1:1 to an Issue. Title,
// description, category, location and image are denormalized copies so the
// worker view never has to join against the issues collection.
type WorkOrder struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID            primitive.ObjectID `bson:"issue_id" json:"issueId"`
	AssignedTeam       string             `bson:"assigned_team" json:"assignedTeam"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	Category           string             `bson:"category" json:"category"`
	Location           interface{}        `bson:"location" json:"location"`
	ImageURL           string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status             WorkOrderStatus    `bson:"status" json:"status"`
	CompletionImageURL string             `bson:"completionImageUrl,omitempty" json:"completionImageUrl,omitempty"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
}
