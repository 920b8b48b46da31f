package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity-be/controllers"
	"fixmycity-be/models"
	"fixmycity-be/services"
	"fixmycity-be/storage"
	"fixmycity-be/store"
)

func newIntakeRouter(st *store.MemoryStore, objects *storage.MemoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	intake := services.NewIntake(st, objects, nil)
	r.GET("/api/test-db", controllers.TestDB(st))
	r.GET("/api/problems", controllers.Problems(st))
	r.POST("/api/submit-report", controllers.SubmitReport(intake))
	return r
}

func reportForm(t *testing.T, fields map[string]string, photo string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}
	if photo != "" {
		part, err := w.CreateFormFile("photo", photo)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSubmitReport(t *testing.T) {
	st := store.NewMemoryStore()
	objects := storage.NewMemoryStore()
	r := newIntakeRouter(st, objects)

	body, contentType := reportForm(t, map[string]string{
		"title":       "Overflowing bin",
		"description": "Bin at the corner has not been emptied",
		"category":    "Waste Management",
		"severity":    "4",
		"location":    "24.579804, 73.612041",
		"reporter":    "asha",
	}, "bin.jpg")

	req := httptest.NewRequest(http.MethodPost, "/api/submit-report", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Submission successful!", resp.Message)
	assert.NotEmpty(t, resp.ID)

	subs, err := st.ListSubmissions(context.Background(), models.SourceRawSubmissions)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Overflowing bin", subs[0].Title)
	assert.Equal(t, 4, subs[0].Severity)
	assert.Equal(t, 1, objects.Len())
}

func TestSubmitReportWithoutPhoto(t *testing.T) {
	st := store.NewMemoryStore()
	objects := storage.NewMemoryStore()
	r := newIntakeRouter(st, objects)

	body, contentType := reportForm(t, map[string]string{"title": "Dark street"}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/submit-report", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, objects.Len())
}

func TestSubmitReportUploadFailure(t *testing.T) {
	st := store.NewMemoryStore()
	objects := storage.NewMemoryStore()
	objects.UploadErr = assert.AnError
	r := newIntakeRouter(st, objects)

	body, contentType := reportForm(t, map[string]string{"title": "Leak"}, "leak.jpg")

	req := httptest.NewRequest(http.MethodPost, "/api/submit-report", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to submit report due to a server error.", resp.Error)

	subs, err := st.ListSubmissions(context.Background(), models.SourceRawSubmissions)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestProblemsDropsUnusableLocations(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := newIntakeRouter(st, storage.NewMemoryStore())

	_, err := st.InsertSubmission(ctx, models.SourceRawSubmissions, &models.Submission{
		Title:    "Pothole",
		Status:   models.StatusSubmitted,
		Location: "24.579804, 73.612041",
	})
	require.NoError(t, err)
	_, err = st.InsertSubmission(ctx, models.SourceRawSubmissions, &models.Submission{
		Title: "No location at all",
	})
	require.NoError(t, err)
	require.NoError(t, st.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.InsertIssue(ctx, &models.Issue{
			Title:        "Broken lamp",
			Category:     "Street Lighting",
			Status:       models.IssueInProgress,
			AssignedTeam: "Street Lighting",
			Location:     models.Location{Lat: 24.6, Lng: 73.7},
		})
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Problems []controllers.Problem `json:"problems"`
		Summary  struct {
			Total          int `json:"total"`
			RawSubmissions int `json:"rawSubmissions"`
			Issues         int `json:"issues"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.RawSubmissions)
	assert.Equal(t, 1, resp.Summary.Issues)

	bySource := map[string]controllers.Problem{}
	for _, p := range resp.Problems {
		bySource[p.Source] = p
	}
	raw := bySource["raw_submissions"]
	assert.Equal(t, "Pothole", raw.Title)
	assert.Equal(t, "submitted", raw.Status)
	assert.InDelta(t, 24.579804, raw.Location.Lat, 1e-9)
	issue := bySource["issues"]
	assert.Equal(t, "Broken lamp", issue.Title)
	assert.Equal(t, "in_progress", issue.Status)
	assert.Equal(t, "Street Lighting", issue.AssignedTeam)
}

func TestTestDBReportsCount(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := newIntakeRouter(st, storage.NewMemoryStore())

	for i := 0; i < 3; i++ {
		_, err := st.InsertSubmission(ctx, models.SourceRawSubmissions, &models.Submission{Title: "x"})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/test-db", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success       bool  `json:"success"`
		DocumentCount int64 `json:"documentCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.EqualValues(t, 3, resp.DocumentCount)
}
