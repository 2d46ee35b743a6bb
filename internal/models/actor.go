package models

const (
	RoleSupplier = "supplier"
	RoleBuyer    = "buyer"
)

// Actor is the identity attached to a request. How it is derived
// (session, JWT) is the identity provider's concern, not ours.
type Actor struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"` // supplier company, empty for buyers
}

func (a Actor) IsSupplier() bool { return a.Role == RoleSupplier }
