package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"fixmycity-be/models"
	"fixmycity-be/storage"
	"fixmycity-be/store"
)

const defaultSeverity = 3

// SubmissionInput carries the multipart form fields of a citizen report.
// Photo is optional; when nil, no object-store write happens.
type SubmissionInput struct {
	Title       string
	Description string
	Category    string
	Severity    string
	Location    string
	Reporter    string

	Photo            io.Reader
	PhotoName        string
	PhotoContentType string
}

// Intake accepts citizen reports and writes the first-stage record.
type Intake struct {
	store   store.Store
	objects storage.ObjectStore
	points  *Leaderboard
}

func NewIntake(st store.Store, objects storage.ObjectStore, points *Leaderboard) *Intake {
	return &Intake{store: st, objects: objects, points: points}
}

// Submit validates the input, uploads the photo when present, and creates the
// raw submission. An upload failure aborts the whole request; no document is
// written without its photo URL. If the document write itself fails after a
// successful upload, the blob is orphaned and accepted as loss.
func (s *Intake) Submit(ctx context.Context, in SubmissionInput) (*models.Submission, error) {
	severity := defaultSeverity
	if in.Severity != "" {
		if parsed, err := strconv.Atoi(in.Severity); err == nil {
			severity = parsed
		}
	}
	category := in.Category
	if category == "" {
		category = "Uncategorized"
	}

	imageURL := ""
	if in.Photo != nil {
		objectPath := fmt.Sprintf("images/photo-%d%s", time.Now().UnixMilli(), filepath.Ext(in.PhotoName))
		url, err := s.objects.Upload(ctx, objectPath, in.Photo, in.PhotoContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image to storage: %w", err)
		}
		imageURL = url
	}

	sub := &models.Submission{
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Severity:    severity,
		Location:    in.Location,
		ImageURL:    imageURL,
		Reporter:    in.Reporter,
		Processed:   false,
		Status:      models.StatusSubmitted,
		CreatedAt:   time.Now(),
	}

	id, err := s.store.InsertSubmission(ctx, models.SourceRawSubmissions, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	if s.points != nil && in.Reporter != "" {
		if err := s.points.Award(ctx, in.Reporter, PointsSubmitted); err != nil {
			log.Warn().Err(err).Str("reporter", in.Reporter).Msg("could not award submission points")
		}
	}

	log.Info().Str("submission", id.Hex()).Str("category", category).Msg("report submitted")
	return sub, nil
}
