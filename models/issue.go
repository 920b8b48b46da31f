package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	IssueInProgress IssueStatus = "in_progress"
	IssueCompleted  IssueStatus = "completed"
	IssueRejected   IssueStatus = "rejected"
)

// CategoryTeams is the canonical list of assignable teams.
var CategoryTeams = []string{
	"Waste Management",
	"Street Lighting",
	"Traffic Issues",
	"Water Supply",
	"Environment",
	"Infrastructure",
	"Public Safety",
	"Emergency",
}

// ValidTeam reports whether name is one of the canonical teams.
func ValidTeam(name string) bool {
	for _, team := range CategoryTeams {
		if team == name {
			return true
		}
	}
	return false
}

// Issue is a triaged, team-assigned problem record. It is created atomically
// together with its WorkOrder when a submission is approved.
type Issue struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Category             string             `bson:"category" json:"category"`
	Severity             int                `bson:"severity" json:"severity"`
	Location             interface{}        `bson:"location" json:"location"`
	ImageURL             string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status               IssueStatus        `bson:"status" json:"status"`
	OriginalSubmissionID primitive.ObjectID `bson:"original_submission_id" json:"originalSubmissionId"`
	AssignedTeam         string             `bson:"assigned_team" json:"assignedTeam"`
	WorkOrderID          primitive.ObjectID `bson:"work_order_id,omitempty" json:"workOrderId,omitempty"`
	Reporter             string             `bson:"reporter,omitempty" json:"reporter,omitempty"`
	// CreatedAt is set at promotion time, not inherited from the submission.
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
