package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type FeedbackStatus string

const (
	FeedbackOpen   FeedbackStatus = "open"
	FeedbackClosed FeedbackStatus = "closed"
)

// Feedback is a success-story request sent to suppliers, open until its
// close date passes.
type Feedback struct {
	ID          string         `bson:"_id" json:"id"`
	Status      FeedbackStatus `bson:"status" json:"status"`
	SupplierIDs []string       `bson:"supplierIds,omitempty" json:"supplierIds,omitempty"`
	CloseDate   time.Time      `bson:"closeDate" json:"closeDate"`
	Content     string         `bson:"content,omitempty" json:"content,omitempty"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

type FeedbackResponse struct {
	ID         string `bson:"_id" json:"id"`
	FeedbackID string `bson:"feedbackId" json:"feedbackId"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	Status ResponseStatus `bson:"status" json:"status"`
	Doc    bson.M         `bson:"doc,omitempty" json:"doc,omitempty"`

	CreatedDate time.Time `bson:"createdDate" json:"createdDate"`
}
