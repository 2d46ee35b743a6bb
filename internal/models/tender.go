package models

import "time"

type TenderStatus string

const (
	TenderDraft    TenderStatus = "draft"
	TenderOpen     TenderStatus = "open"
	TenderClosed   TenderStatus = "closed"
	TenderCanceled TenderStatus = "canceled"
	TenderAwarded  TenderStatus = "awarded"
)

func ValidTenderStatus(s TenderStatus) bool {
	switch s {
	case TenderDraft, TenderOpen, TenderClosed, TenderCanceled, TenderAwarded:
		return true
	default:
		return false
	}
}

type TenderKind string

const (
	TenderRFQ TenderKind = "rfq"
	TenderEOI TenderKind = "eoi"
)

func ValidTenderKind(k TenderKind) bool { return k == TenderRFQ || k == TenderEOI }

type Tender struct {
	ID     string       `bson:"_id" json:"id"`
	Kind   TenderKind   `bson:"type" json:"type"`
	Status TenderStatus `bson:"status" json:"status"`

	Number  string `bson:"number" json:"number"`
	Name    string `bson:"name" json:"name"`
	Content string `bson:"content,omitempty" json:"content,omitempty"`

	PublishDate time.Time `bson:"publishDate" json:"publishDate"`
	CloseDate   time.Time `bson:"closeDate" json:"closeDate"`

	SupplierIDs []string `bson:"supplierIds,omitempty" json:"supplierIds,omitempty"`
	IsToAll     bool     `bson:"isToAll" json:"isToAll"`

	// rfq: product codes requested; eoi: document names requested
	RequestedProducts  []string `bson:"requestedProducts,omitempty" json:"requestedProducts,omitempty"`
	RequestedDocuments []string `bson:"requestedDocuments,omitempty" json:"requestedDocuments,omitempty"`
	Attachments        []string `bson:"attachments,omitempty" json:"attachments,omitempty"`

	WinnerID         string `bson:"winnerId,omitempty" json:"winnerId,omitempty"`
	SentRegretLetter bool   `bson:"sentRegretLetter" json:"sentRegretLetter"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

// ResponseDeadline is the instant a response is measured against when it
// is sent: the close date, always.
func (t *Tender) ResponseDeadline() time.Time { return t.CloseDate }

// Participates reports whether a supplier may respond at all: either the
// tender is addressed to everyone or the supplier was invited.
func (t *Tender) Participates(supplierID string) bool {
	if t.IsToAll {
		return true
	}
	for _, id := range t.SupplierIDs {
		if id == supplierID {
			return true
		}
	}
	return false
}
