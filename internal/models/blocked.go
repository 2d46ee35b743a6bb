package models

import "time"

// BlockedCompany is a time-windowed supplier block. A supplier is blocked at
// an instant iff some record has startDate <= instant <= endDate.
type BlockedCompany struct {
	ID         string    `bson:"_id" json:"id"`
	SupplierID string    `bson:"supplierId" json:"supplierId"`
	StartDate  time.Time `bson:"startDate" json:"startDate"`
	EndDate    time.Time `bson:"endDate" json:"endDate"`
	GroupID    string    `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`

	CreatedUserID string    `bson:"createdUserId,omitempty" json:"createdUserId,omitempty"`
	CreatedDate   time.Time `bson:"createdDate" json:"createdDate"`
}

func (b *BlockedCompany) Covers(instant time.Time) bool {
	return !instant.Before(b.StartDate) && !instant.After(b.EndDate)
}
