// Package eligibility holds the pure precondition checks that run before any
// mutation, and the sentinel errors they surface. Nothing here touches the
// store; callers load the entities and hand them in.
package eligibility

import (
	"errors"
	"time"

	"supplierportal/internal/models"
)

var (
	ErrPermissionDenied = errors.New("Permission denied")
	ErrChangesDisabled  = errors.New("Changes disabled")

	ErrTenderNotAvailable = errors.New("This tender is not available")
	ErrNotParticipated    = errors.New("Not participated")

	ErrRegistrationIncomplete     = errors.New("Please complete registration stage")
	ErrPrequalificationIncomplete = errors.New("Please complete prequalification stage")

	ErrResponseNotFound = errors.New("Response not found")
)

// RequireRole gates an action on the actor's role. Pass both roles to allow
// either.
func RequireRole(actor models.Actor, roles ...string) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return ErrPermissionDenied
}

// RequireEditable is the "changes disabled" gate shared by the company
// prequalification sections, physical audits and due diligences.
func RequireEditable(editable bool) error {
	if !editable {
		return ErrChangesDisabled
	}
	return nil
}

// CanRespond decides whether a supplier may create or update a response on a
// tender right now. The checks run in a fixed order so the caller always gets
// the most specific failure: availability, participation, then stage.
func CanRespond(t *models.Tender, supplier *models.Company) error {
	if t.Status != models.TenderOpen {
		return ErrTenderNotAvailable
	}
	if !t.Participates(supplier.ID) {
		return ErrNotParticipated
	}
	if !supplier.IsSentRegistrationInfo {
		return ErrRegistrationIncomplete
	}
	if t.Kind == models.TenderEOI && !supplier.IsSentPrequalificationInfo {
		return ErrPrequalificationIncomplete
	}
	return nil
}

// CanSend gates sending an existing response: only the tender being open
// matters, content eligibility was already checked at creation.
func CanSend(t *models.Tender) error {
	if t.Status != models.TenderOpen {
		return ErrTenderNotAvailable
	}
	return nil
}

// Blocked reports whether any block record covers the instant.
func Blocked(blocks []models.BlockedCompany, instant time.Time) bool {
	for i := range blocks {
		if blocks[i].Covers(instant) {
			return true
		}
	}
	return false
}
