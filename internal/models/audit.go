package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Audit is an HSEQ/business audit round opened by a buyer toward a set of
// suppliers. The actual answers live on AuditResponse documents.
type Audit struct {
	ID          string    `bson:"_id" json:"id"`
	SupplierIDs []string  `bson:"supplierIds,omitempty" json:"supplierIds,omitempty"`
	PublishDate time.Time `bson:"publishDate" json:"publishDate"`
	CloseDate   time.Time `bson:"closeDate" json:"closeDate"`

	Content string `bson:"content,omitempty" json:"content,omitempty"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

// Open reports whether suppliers may still write their side of the answers.
func (a *Audit) Open(now time.Time) bool {
	return !now.Before(a.PublishDate) && !now.After(a.CloseDate)
}

// AuditResponse holds the dual-authored sections for one supplier within an
// audit. Each section maps a question key to a sub-document whose leaves are
// partitioned by role: the supplier writes supplierComment/supplierAnswer,
// the auditor writes auditorComment/auditorRecommendation/auditorScore.
type AuditResponse struct {
	ID         string `bson:"_id" json:"id"`
	AuditID    string `bson:"auditId" json:"auditId"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	BasicInfo    bson.M `bson:"basicInfo,omitempty" json:"basicInfo,omitempty"`
	CoreHseqInfo bson.M `bson:"coreHseqInfo,omitempty" json:"coreHseqInfo,omitempty"`
	HrInfo       bson.M `bson:"hrInfo,omitempty" json:"hrInfo,omitempty"`
	BusinessInfo bson.M `bson:"businessInfo,omitempty" json:"businessInfo,omitempty"`

	IsSent     bool `bson:"isSent" json:"isSent"`
	IsEditable bool `bson:"isEditable" json:"isEditable"`

	IsQualified bool `bson:"isQualified" json:"isQualified"`

	CreatedDate time.Time `bson:"createdDate" json:"createdDate"`
}
