package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// DifotScore is a delivery-performance sample appended over time by buyers.
type DifotScore struct {
	Date   time.Time `bson:"date" json:"date"`
	Amount float64   `bson:"amount" json:"amount"`
}

// Company is a supplier profile: a set of independently-updatable nested
// sections plus qualification flags. Sections are free-form documents so the
// merge engine can work on them field by field.
type Company struct {
	ID string `bson:"_id" json:"id"`

	BasicInfo          bson.M `bson:"basicInfo,omitempty" json:"basicInfo,omitempty"`
	ContactInfo        bson.M `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
	ManagementTeamInfo bson.M `bson:"managementTeamInfo,omitempty" json:"managementTeamInfo,omitempty"`
	ShareholderInfo    bson.M `bson:"shareholderInfo,omitempty" json:"shareholderInfo,omitempty"`
	GroupInfo          bson.M `bson:"groupInfo,omitempty" json:"groupInfo,omitempty"`
	CertificateInfo    bson.M `bson:"certificateInfo,omitempty" json:"certificateInfo,omitempty"`
	FinancialInfo      bson.M `bson:"financialInfo,omitempty" json:"financialInfo,omitempty"`
	BusinessInfo       bson.M `bson:"businessInfo,omitempty" json:"businessInfo,omitempty"`
	EnvironmentalInfo  bson.M `bson:"environmentalInfo,omitempty" json:"environmentalInfo,omitempty"`
	HealthInfo         bson.M `bson:"healthInfo,omitempty" json:"healthInfo,omitempty"`

	ProductsInfo            []string `bson:"productsInfo,omitempty" json:"productsInfo,omitempty"`
	ValidatedProductsInfo   []string `bson:"validatedProductsInfo,omitempty" json:"validatedProductsInfo,omitempty"`
	IsProductsInfoValidated bool     `bson:"isProductsInfoValidated" json:"isProductsInfoValidated"`

	IsSentRegistrationInfo         bool `bson:"isSentRegistrationInfo" json:"isSentRegistrationInfo"`
	IsSentPrequalificationInfo     bool `bson:"isSentPrequalificationInfo" json:"isSentPrequalificationInfo"`
	IsPrequalificationInfoEditable bool `bson:"isPrequalificationInfoEditable" json:"isPrequalificationInfoEditable"`
	IsPrequalified                 bool `bson:"isPrequalified" json:"isPrequalified"`

	DifotScores       []DifotScore `bson:"difotScores,omitempty" json:"difotScores,omitempty"`
	AverageDifotScore float64      `bson:"averageDifotScore" json:"averageDifotScore"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
	ModifiedDate  time.Time `bson:"modifiedDate" json:"modifiedDate"`
}

// ContactEmail is the address the notifier uses; contact info wins over
// the registration email.
func (c *Company) ContactEmail() string {
	if e, ok := c.ContactInfo["email"].(string); ok && e != "" {
		return e
	}
	if e, ok := c.BasicInfo["email"].(string); ok && e != "" {
		return e
	}
	return ""
}

// Name is for logs and notification payloads only.
func (c *Company) Name() string {
	if n, ok := c.BasicInfo["enName"].(string); ok && n != "" {
		return n
	}
	if n, ok := c.BasicInfo["mnName"].(string); ok && n != "" {
		return n
	}
	return c.ID
}
