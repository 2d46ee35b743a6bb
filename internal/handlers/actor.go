package handlers

import (
	"errors"
	"net/http"
	"strings"

	"supplierportal/internal/models"
)

// O gateway de autenticação na frente da API injeta a identidade resolvida
// nesses cabeçalhos; aqui só traduzimos para o ator do domínio.
const (
	headerUserID    = "X-User-Id"
	headerRole      = "X-Role"
	headerCompanyID = "X-Company-Id"
)

func actorFromRequest(r *http.Request) (models.Actor, error) {
	a := models.Actor{
		UserID:    r.Header.Get(headerUserID),
		Role:      r.Header.Get(headerRole),
		CompanyID: r.Header.Get(headerCompanyID),
	}
	if a.UserID == "" || a.Role == "" {
		return models.Actor{}, errors.New("missing identity headers")
	}
	if a.Role != models.RoleSupplier && a.Role != models.RoleBuyer {
		return models.Actor{}, errors.New("unknown role")
	}
	if a.Role == models.RoleSupplier && a.CompanyID == "" {
		return models.Actor{}, errors.New("supplier without company")
	}
	return a, nil
}

// splitPath: "/api/tenders/t-1/award" -> ["api" "tenders" "t-1" "award"]
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
