package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixmycity-be/models"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrNotEligible is returned when a work order is already finished or
	// already awaiting review and cannot accept completion proof.
	ErrNotEligible = errors.New("work order is not eligible for completion proof")
)

// Event mirrors a collection change pushed to subscribed dashboards.
type Event struct {
	Collection string `json:"collection"`
	Type       string `json:"type"` // insert, update, delete
	ID         string `json:"id"`
	Doc        bson.M `json:"doc,omitempty"`
}

// Tx exposes the writes available inside a multi-document transaction. All
// writes performed through a Tx become visible together or not at all.
type Tx interface {
	InsertIssue(ctx context.Context, issue *models.Issue) error
	InsertWorkOrder(ctx context.Context, order *models.WorkOrder) error
	SetIssueWorkOrder(ctx context.Context, issueID, orderID primitive.ObjectID) error
	SetIssueStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus) error
	SetWorkOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.WorkOrderStatus) error
	// DeleteSubmission returns ErrNotFound when the document is already gone,
	// aborting the transaction. This is the guard against two operators
	// promoting the same submission concurrently.
	DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error
}

// Store is the persistence surface: four collections plus the transactional
// primitive and a change-subscription capability. It is passed into the
// lifecycle engine explicitly so tests can substitute the in-memory
// implementation.
type Store interface {
	InsertSubmission(ctx context.Context, source models.Source, sub *models.Submission) (primitive.ObjectID, error)
	GetSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) (*models.Submission, error)
	ListSubmissions(ctx context.Context, source models.Source) ([]models.Submission, error)
	DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error
	CountSubmissions(ctx context.Context) (int64, error)

	GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	ListIssues(ctx context.Context) ([]models.Issue, error)

	GetWorkOrder(ctx context.Context, id primitive.ObjectID) (*models.WorkOrder, error)
	// ListWorkOrders filters by team and status; either may be empty.
	ListWorkOrders(ctx context.Context, team string, status models.WorkOrderStatus) ([]models.WorkOrder, error)
	// SetWorkOrderProof atomically moves an eligible work order to
	// pending_admin_approval with its completion image URL. Returns
	// ErrNotEligible when the order exists but is finished or already
	// awaiting review.
	SetWorkOrderProof(ctx context.Context, id primitive.ObjectID, imageURL string) error

	// ListRawDocs returns undecoded documents from a collection for views
	// that must tolerate legacy field shapes.
	ListRawDocs(ctx context.Context, collection string) ([]bson.M, error)

	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Subscribe streams change events for the named collections until the
	// context is cancelled or the returned unsubscribe func is called.
	Subscribe(ctx context.Context, collections []string) (<-chan Event, func(), error)
}
