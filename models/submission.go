package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source identifies the collection a pending submission lives in.
type Source string

const (
	SourceRawSubmissions  Source = "raw_submissions"
	SourcePredictedIssues Source = "predicted_issues"
)

// ValidSource reports whether s names one of the two pending collections.
func ValidSource(s Source) bool {
	return s == SourceRawSubmissions || s == SourcePredictedIssues
}

// StatusSubmitted is the initial status of every pending submission.
const StatusSubmitted = "submitted"

// Submission is an unreviewed citizen report. The same shape covers both
// raw_submissions and predicted_issues; the External* fields are only set on
// externally ingested predicted issues.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Severity    int                `bson:"severity" json:"severity"`
	// Location tolerates every historical format; see NormalizeLocation.
	// New submissions always write a "lat, lng" string.
	Location  interface{} `bson:"location" json:"location"`
	ImageURL  string      `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Reporter  string      `bson:"reporter,omitempty" json:"reporter,omitempty"`
	Processed bool        `bson:"processed" json:"processed"`
	Status    string      `bson:"status" json:"status"`

	ExternalSource     string `bson:"source,omitempty" json:"source,omitempty"`
	ExternalSourceURL  string `bson:"source_url,omitempty" json:"sourceUrl,omitempty"`
	ExternalSourceType string `bson:"source_type,omitempty" json:"sourceType,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
