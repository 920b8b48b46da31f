package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixmycity-be/models"
	"fixmycity-be/storage"
	"fixmycity-be/store"
)

var (
	// ErrTeamRequired is returned when an approval carries no team.
	ErrTeamRequired = errors.New("team required")
	// ErrUnknownTeam is returned when the team is not one of the canonical names.
	ErrUnknownTeam = errors.New("unknown team")
)

// Lifecycle is the engine moving a report across collections and statuses.
// Every multi-document transition runs inside a store transaction so that no
// reader can observe partial state.
type Lifecycle struct {
	store   store.Store
	objects storage.ObjectStore
	points  *Leaderboard
}

func NewLifecycle(st store.Store, objects storage.ObjectStore, points *Leaderboard) *Lifecycle {
	return &Lifecycle{store: st, objects: objects, points: points}
}

// Approve promotes a pending submission into an Issue + WorkOrder pair
// assigned to team. The issue insert, work order insert, back-reference
// update and source delete commit atomically; if the source document is
// already gone (a concurrent approval won), the transaction aborts with
// store.ErrNotFound and nothing is written.
func (l *Lifecycle) Approve(ctx context.Context, source models.Source, id primitive.ObjectID, team string) (*models.Issue, *models.WorkOrder, error) {
	if team == "" {
		return nil, nil, ErrTeamRequired
	}
	if !models.ValidTeam(team) {
		return nil, nil, ErrUnknownTeam
	}

	sub, err := l.store.GetSubmission(ctx, source, id)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	issue := &models.Issue{
		ID:                   primitive.NewObjectID(),
		Title:                sub.Title,
		Description:          sub.Description,
		Category:             sub.Category,
		Severity:             sub.Severity,
		Location:             sub.Location,
		ImageURL:             sub.ImageURL,
		Status:               models.IssueInProgress,
		OriginalSubmissionID: sub.ID,
		AssignedTeam:         team,
		Reporter:             sub.Reporter,
		// fresh timestamp, intentionally not inherited from the submission
		CreatedAt: now,
	}
	// status is always "assigned" here, regardless of anything on the source
	order := &models.WorkOrder{
		ID:           primitive.NewObjectID(),
		IssueID:      issue.ID,
		AssignedTeam: team,
		Title:        sub.Title,
		Description:  sub.Description,
		Category:     sub.Category,
		Location:     sub.Location,
		ImageURL:     sub.ImageURL,
		Status:       models.OrderAssigned,
		CreatedAt:    now,
	}

	err = l.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertIssue(ctx, issue); err != nil {
			return err
		}
		if err := tx.InsertWorkOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.SetIssueWorkOrder(ctx, issue.ID, order.ID); err != nil {
			return err
		}
		return tx.DeleteSubmission(ctx, source, sub.ID)
	})
	if err != nil {
		log.Error().Err(err).Str("submission", sub.ID.Hex()).Msg("approval transaction failed")
		return nil, nil, err
	}
	issue.WorkOrderID = order.ID

	if l.points != nil && sub.Reporter != "" {
		if err := l.points.Award(ctx, sub.Reporter, PointsApproved); err != nil {
			log.Warn().Err(err).Str("reporter", sub.Reporter).Msg("could not award approval points")
		}
	}

	log.Info().
		Str("submission", sub.ID.Hex()).
		Str("issue", issue.ID.Hex()).
		Str("workOrder", order.ID.Hex()).
		Str("team", team).
		Msg("submission approved")
	return issue, order, nil
}

// Reject deletes a pending submission outright. Rejecting an id that is
// already gone returns store.ErrNotFound.
func (l *Lifecycle) Reject(ctx context.Context, source models.Source, id primitive.ObjectID) error {
	if err := l.store.DeleteSubmission(ctx, source, id); err != nil {
		return err
	}
	log.Info().Str("submission", id.Hex()).Str("collection", string(source)).Msg("submission rejected")
	return nil
}

// SubmitProof uploads a worker's completion photo and advances the work order
// to pending_admin_approval. The status never changes without a stored proof
// URL: the upload happens first and an upload failure aborts the transition.
func (l *Lifecycle) SubmitProof(ctx context.Context, orderID primitive.ObjectID, filename string, photo io.Reader, contentType string) (*models.WorkOrder, error) {
	order, err := l.store.GetWorkOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.ProofEligible() {
		return nil, store.ErrNotEligible
	}

	objectPath := fmt.Sprintf("completion-proof/%s/%s", orderID.Hex(), proofObjectName(filename))
	url, err := l.objects.Upload(ctx, objectPath, photo, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload completion proof: %w", err)
	}

	if err := l.store.SetWorkOrderProof(ctx, orderID, url); err != nil {
		return nil, err
	}
	order.Status = models.OrderPendingAdminApproval
	order.CompletionImageURL = url

	log.Info().Str("workOrder", orderID.Hex()).Msg("completion proof submitted")
	return order, nil
}

// FinalApproval closes the loop: the work order and its linked issue move to
// "completed" in one transaction. It must never be observable that only one
// of the two has transitioned.
func (l *Lifecycle) FinalApproval(ctx context.Context, orderID primitive.ObjectID) error {
	order, err := l.store.GetWorkOrder(ctx, orderID)
	if err != nil {
		return err
	}

	err = l.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.SetWorkOrderStatus(ctx, order.ID, models.OrderCompleted); err != nil {
			return err
		}
		return tx.SetIssueStatus(ctx, order.IssueID, models.IssueCompleted)
	})
	if err != nil {
		log.Error().Err(err).Str("workOrder", orderID.Hex()).Msg("final approval transaction failed")
		return err
	}

	log.Info().Str("workOrder", order.ID.Hex()).Str("issue", order.IssueID.Hex()).Msg("work order completed")
	return nil
}

// proofObjectName keeps the original file name when there is one and falls
// back to a generated name for clients that send none.
func proofObjectName(filename string) string {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == "/" {
		return uuid.NewString()
	}
	return name
}
