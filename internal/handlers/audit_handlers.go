package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/audit"
	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/utils"
)

type AuditService interface {
	Create(ctx context.Context, in audit.CreateInput, createdUserID string) (*models.Audit, error)
	Get(ctx context.Context, id string) (*models.Audit, error)
	SaveSection(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error)
	SendResponse(ctx context.Context, auditID string, actor models.Actor) (*models.AuditResponse, error)
	EnableResponseEditing(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)
	Qualify(ctx context.Context, auditID, supplierID string, qualified bool) (*models.AuditResponse, error)
	GetResponse(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)

	CreatePhysicalAudit(ctx context.Context, in audit.PhysicalAuditInput, createdUserID string) (*models.PhysicalAudit, error)
	UpdatePhysicalAudit(ctx context.Context, id string, in audit.PhysicalAuditInput) (*models.PhysicalAudit, error)
	EnablePhysicalAuditEditing(ctx context.Context, id string) (*models.PhysicalAudit, error)
	RemovePhysicalAudit(ctx context.Context, id string) error
}

type AuditHandler struct {
	Svc AuditService
	Now func() time.Time
}

func NewAuditHandler(svc AuditService) *AuditHandler {
	return &AuditHandler{Svc: svc, Now: time.Now}
}

// Audits atende POST /api/audits.
func (h *AuditHandler) Audits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}
	if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
		writeErr(w, err)
		return
	}

	var in audit.CreateInput
	if err := utils.DecodeStrict(r.Body, &in); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	a, err := h.Svc.Create(ctx, in, actor.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, a)
}

// AuditByPath atende /api/audits/{id} e as rotas de resposta.
func (h *AuditHandler) AuditByPath(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "audits" {
		notFound(w)
		return
	}
	id := parts[2]

	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		a, err := h.Svc.Get(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, a)

	// POST /api/audits/{id}/responses/send (fornecedor envia o próprio pacote)
	case len(parts) == 5 && parts[3] == "responses" && parts[4] == "send" && r.Method == http.MethodPost:
		resp, err := h.Svc.SendResponse(ctx, id, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, resp)

	// GET /api/audits/{id}/responses/{supplierId}
	case len(parts) == 5 && parts[3] == "responses" && r.Method == http.MethodGet:
		supplierID := parts[4]
		if actor.IsSupplier() && actor.CompanyID != supplierID {
			writeErr(w, eligibility.ErrPermissionDenied)
			return
		}
		resp, err := h.Svc.GetResponse(ctx, id, supplierID)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, resp)

	// PUT /api/audits/{id}/responses/{supplierId}/sections/{name}
	case len(parts) == 7 && parts[3] == "responses" && parts[5] == "sections" && r.Method == http.MethodPut:
		var doc bson.M
		if err := utils.DecodeStrict(r.Body, &doc); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		resp, err := h.Svc.SaveSection(ctx, id, parts[4], parts[6], doc, actor, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, resp)

	// POST /api/audits/{id}/responses/{supplierId}/enable | /qualify
	case len(parts) == 6 && parts[3] == "responses" && r.Method == http.MethodPost:
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		switch parts[5] {
		case "enable":
			resp, err := h.Svc.EnableResponseEditing(ctx, id, parts[4])
			if err != nil {
				writeErr(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusOK, resp)
		case "qualify":
			var in struct {
				Qualified bool `json:"qualified"`
			}
			if err := utils.DecodeStrict(r.Body, &in); err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			resp, err := h.Svc.Qualify(ctx, id, parts[4], in.Qualified)
			if err != nil {
				writeErr(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusOK, resp)
		default:
			notFound(w)
		}

	default:
		methodNotAllowed(w)
	}
}

// PhysicalAudits atende /api/physical-audits e /api/physical-audits/{id}.
func (h *AuditHandler) PhysicalAudits(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}
	if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
		writeErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	parts := splitPath(r.URL.Path)
	switch {
	case len(parts) == 2 && r.Method == http.MethodPost:
		var in audit.PhysicalAuditInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		a, err := h.Svc.CreatePhysicalAudit(ctx, in, actor.UserID)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, a)

	case len(parts) == 3 && r.Method == http.MethodPut:
		var in audit.PhysicalAuditInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		a, err := h.Svc.UpdatePhysicalAudit(ctx, parts[2], in)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, a)

	case len(parts) == 3 && r.Method == http.MethodDelete:
		if err := h.Svc.RemovePhysicalAudit(ctx, parts[2]); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case len(parts) == 4 && parts[3] == "enable" && r.Method == http.MethodPost:
		a, err := h.Svc.EnablePhysicalAuditEditing(ctx, parts[2])
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, a)

	default:
		methodNotAllowed(w)
	}
}
