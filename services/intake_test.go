package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity-be/models"
	"fixmycity-be/services"
	"fixmycity-be/storage"
	"fixmycity-be/store"
)

func TestSubmitDefaults(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	intake := services.NewIntake(st, storage.NewMemoryStore(), nil)

	sub, err := intake.Submit(ctx, services.SubmissionInput{
		Title:       "Streetlight out",
		Description: "Dark corner at 5th and Oak",
		Severity:    "not-a-number",
		Location:    "24.579804, 73.612041",
	})
	require.NoError(t, err)

	assert.Equal(t, "Uncategorized", sub.Category)
	assert.Equal(t, 3, sub.Severity)
	assert.Equal(t, models.StatusSubmitted, sub.Status)
	assert.False(t, sub.Processed)
	assert.Empty(t, sub.ImageURL)
	assert.False(t, sub.CreatedAt.IsZero())

	stored, err := st.GetSubmission(ctx, models.SourceRawSubmissions, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Streetlight out", stored.Title)
}

func TestSubmitParsesSeverity(t *testing.T) {
	ctx := context.Background()
	intake := services.NewIntake(store.NewMemoryStore(), storage.NewMemoryStore(), nil)

	sub, err := intake.Submit(ctx, services.SubmissionInput{
		Title:    "Garbage pile",
		Category: "Waste Management",
		Severity: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, sub.Severity)
	assert.Equal(t, "Waste Management", sub.Category)
}

func TestSubmitStoresPhoto(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	objects := storage.NewMemoryStore()
	intake := services.NewIntake(st, objects, nil)

	sub, err := intake.Submit(ctx, services.SubmissionInput{
		Title:            "Flooded underpass",
		Category:         "Water Supply",
		Photo:            strings.NewReader("jpeg bytes"),
		PhotoName:        "flood.jpg",
		PhotoContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sub.ImageURL, "https://storage.test/images/photo-"))
	assert.True(t, strings.HasSuffix(sub.ImageURL, ".jpg"))
	assert.Equal(t, 1, objects.Len())
}

func TestSubmitUploadFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	objects := storage.NewMemoryStore()
	objects.UploadErr = errors.New("bucket unreachable")
	intake := services.NewIntake(st, objects, nil)

	_, err := intake.Submit(ctx, services.SubmissionInput{
		Title: "Broken bench",
		Photo: strings.NewReader("jpeg bytes"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unreachable")

	// no orphaned partial record
	count, _ := st.CountSubmissions(ctx)
	assert.Zero(t, count)
}
