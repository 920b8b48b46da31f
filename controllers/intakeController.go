package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixmycity-be/models"
	"fixmycity-be/services"
	"fixmycity-be/store"
)

// Problem is the map-view projection of a document with a usable location.
type Problem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	Location     models.Location `json:"location"`
	CreatedAt    time.Time       `json:"createdAt"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Source       string          `json:"source"`
	AssignedTeam string          `json:"assignedTeam,omitempty"`
	WorkOrderID  string          `json:"workOrderId,omitempty"`
}

// Home serves the static confirmation page.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Backend Server is Running!</h1>"))
	}
}

// TestDB checks database connectivity by counting raw submissions.
func TestDB(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		count, err := st.CountSubmissions(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "Database connection successful",
			"documentCount": count,
		})
	}
}

// Problems returns every raw submission and issue that has a usable location,
// normalized for the public map. Documents without coordinates are dropped
// silently; that is expected for old records, not an error.
func Problems(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		rawProblems, err := problemsFrom(ctx, st, string(models.SourceRawSubmissions))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch problems", "details": err.Error()})
			return
		}
		issueProblems, err := problemsFrom(ctx, st, "issues")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch problems", "details": err.Error()})
			return
		}

		all := append(rawProblems, issueProblems...)
		c.JSON(http.StatusOK, gin.H{
			"problems": all,
			"summary": gin.H{
				"total":          len(all),
				"rawSubmissions": len(rawProblems),
				"issues":         len(issueProblems),
			},
		})
	}
}

func problemsFrom(ctx context.Context, st store.Store, collection string) ([]Problem, error) {
	docs, err := st.ListRawDocs(ctx, collection)
	if err != nil {
		return nil, err
	}

	problems := []Problem{}
	for _, doc := range docs {
		loc := models.NormalizeLocation(doc)
		if loc == nil {
			log.Debug().Str("collection", collection).Str("id", idHex(doc["_id"])).Msg("no valid location, dropped from map view")
			continue
		}

		p := Problem{
			ID:        idHex(doc["_id"]),
			Title:     stringField(doc, "title"),
			Category:  stringField(doc, "category"),
			Status:    stringField(doc, "status"),
			Location:  *loc,
			CreatedAt: timeField(doc, "created_at"),
			ImageURL:  stringField(doc, "imageUrl"),
			Source:    collection,
		}
		if collection == "issues" {
			if p.Title == "" {
				p.Title = stringField(doc, "subcategory")
			}
			if p.Category == "" {
				p.Category = stringField(doc, "subcategory")
			}
			if p.Title == "" {
				p.Title = "Issue"
			}
			if p.Status == "" {
				p.Status = "new"
			}
			p.AssignedTeam = stringField(doc, "assigned_team")
			p.WorkOrderID = idHex(doc["work_order_id"])
		} else {
			if p.Title == "" {
				p.Title = "Untitled Issue"
			}
			if p.Status == "" {
				p.Status = "submitted"
			}
		}
		if p.Category == "" {
			p.Category = "Uncategorized"
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// SubmitReport accepts the multipart citizen report form.
func SubmitReport(intake *services.Intake) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		input := services.SubmissionInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Category:    c.PostForm("category"),
			Severity:    c.PostForm("severity"),
			Location:    c.PostForm("location"),
			Reporter:    c.PostForm("reporter"),
		}

		if header, err := c.FormFile("photo"); err == nil {
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded photo.", "details": err.Error()})
				return
			}
			defer file.Close()
			input.Photo = file
			input.PhotoName = header.Filename
			input.PhotoContentType = header.Header.Get("Content-Type")
		}

		sub, err := intake.Submit(ctx, input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to submit report due to a server error.",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Submission successful!", "id": sub.ID.Hex()})
	}
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func idHex(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return ""
}

func timeField(doc bson.M, key string) time.Time {
	switch t := doc[key].(type) {
	case primitive.DateTime:
		return t.Time()
	case time.Time:
		return t
	}
	return time.Now()
}
