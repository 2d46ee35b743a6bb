package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// PhysicalAudit is an on-site audit report for a supplier. Updates are gated
// on IsEditable, mirroring the prequalification changes-disabled pattern.
type PhysicalAudit struct {
	ID         string `bson:"_id" json:"id"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	IsQualified         bool   `bson:"isQualified" json:"isQualified"`
	ReportFile          string `bson:"reportFile,omitempty" json:"reportFile,omitempty"`
	ImprovementPlanFile string `bson:"improvementPlanFile,omitempty" json:"improvementPlanFile,omitempty"`
	IsEditable          bool   `bson:"isEditable" json:"isEditable"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

// DueDiligence is a periodic supplier risk assessment with an expiry date.
type DueDiligence struct {
	ID         string `bson:"_id" json:"id"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	File       string    `bson:"file,omitempty" json:"file,omitempty"`
	Risk       string    `bson:"risk,omitempty" json:"risk,omitempty"`
	Date       time.Time `bson:"date" json:"date"`
	ExpireDate time.Time `bson:"expireDate" json:"expireDate"`
	IsEditable bool      `bson:"isEditable" json:"isEditable"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

func (d *DueDiligence) Expired(now time.Time) bool { return now.After(d.ExpireDate) }

// Qualification keeps the buyer's per-section prequalification verdicts for
// one supplier.
type Qualification struct {
	ID         string `bson:"_id" json:"id"`
	SupplierID string `bson:"supplierId" json:"supplierId"`

	FinancialInfo     bson.M `bson:"financialInfo,omitempty" json:"financialInfo,omitempty"`
	BusinessInfo      bson.M `bson:"businessInfo,omitempty" json:"businessInfo,omitempty"`
	EnvironmentalInfo bson.M `bson:"environmentalInfo,omitempty" json:"environmentalInfo,omitempty"`
	HealthInfo        bson.M `bson:"healthInfo,omitempty" json:"healthInfo,omitempty"`

	CreatedDate time.Time `bson:"createdDate" json:"createdDate"`
}
