package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type ResponseStatus string

const (
	ResponseOnTime ResponseStatus = "onTime"
	ResponseLate   ResponseStatus = "late"
)

// TenderResponse is a per-supplier reply; at most one exists per
// (tenderId, supplierId) pair. Status stays empty until the response is sent.
type TenderResponse struct {
	ID         string `bson:"_id" json:"id"`
	TenderID   string `bson:"tenderId" json:"tenderId"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	IsNotInterested bool           `bson:"isNotInterested" json:"isNotInterested"`
	IsSent          bool           `bson:"isSent" json:"isSent"`
	Status          ResponseStatus `bson:"status,omitempty" json:"status,omitempty"`
	SentDate        time.Time      `bson:"sentDate,omitempty" json:"sentDate,omitempty"`

	// rfq: one entry per requested product code; eoi: one per requested document
	RespondedProducts  []bson.M `bson:"respondedProducts,omitempty" json:"respondedProducts,omitempty"`
	RespondedDocuments []bson.M `bson:"respondedDocuments,omitempty" json:"respondedDocuments,omitempty"`
	RespondedFiles     []string `bson:"respondedFiles,omitempty" json:"respondedFiles,omitempty"`

	CreatedDate time.Time `bson:"createdDate" json:"createdDate"`
}
