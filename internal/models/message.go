package models

import "time"

// TenderMessage is a directional buyer<->supplier message on a tender,
// possibly carrying a file attachment.
type TenderMessage struct {
	ID       string `bson:"_id" json:"id"`
	TenderID string `bson:"tenderId" json:"tenderId"`

	SenderBuyerID        string   `bson:"senderBuyerId,omitempty" json:"senderBuyerId,omitempty"`
	SenderSupplierID     string   `bson:"senderSupplierId,omitempty" json:"senderSupplierId,omitempty"`
	RecipientSupplierIDs []string `bson:"recipientSupplierIds,omitempty" json:"recipientSupplierIds,omitempty"`

	Subject    string `bson:"subject" json:"subject"`
	Body       string `bson:"body" json:"body"`
	Attachment string `bson:"attachment,omitempty" json:"attachment,omitempty"`

	IsAuto      bool      `bson:"isAuto" json:"isAuto"`
	CreatedDate time.Time `bson:"createdDate" json:"createdDate"`
}
