package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"supplierportal/internal/audit"
	"supplierportal/internal/company"
	"supplierportal/internal/eligibility"
	"supplierportal/internal/feedback"
	"supplierportal/internal/repository"
	"supplierportal/internal/utils"
)

// writeErr traduz os sentinelas do domínio para códigos HTTP. A mensagem vai
// intocada no corpo: o front exibe exatamente o texto do erro.
func writeErr(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, eligibility.ErrPermissionDenied),
		errors.Is(err, eligibility.ErrChangesDisabled):
		utils.WriteJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})

	case errors.Is(err, eligibility.ErrTenderNotAvailable),
		errors.Is(err, eligibility.ErrNotParticipated),
		errors.Is(err, eligibility.ErrRegistrationIncomplete),
		errors.Is(err, eligibility.ErrPrequalificationIncomplete),
		errors.Is(err, feedback.ErrFeedbackNotAvailable):
		utils.WriteJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})

	case errors.Is(err, eligibility.ErrResponseNotFound),
		errors.Is(err, repository.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, repository.ErrDuplicateName),
		errors.Is(err, repository.ErrDuplicateResponse):
		utils.WriteJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, company.ErrUnknownSection),
		errors.Is(err, audit.ErrUnknownSection),
		errors.As(err, &verrs):
		utils.BadRequest(w, err.Error())

	default:
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func notFound(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func unauthorized(w http.ResponseWriter, err error) {
	utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
}
