package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/company"
	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/utils"
)

type CompanyService interface {
	Create(ctx context.Context, in company.CreateInput, createdUserID string) (*models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context, limit, skip int64) ([]models.Company, error)
	UpdateSection(ctx context.Context, id, name string, doc bson.M) (*models.Company, error)
	SendRegistrationInfo(ctx context.Context, id string) (*models.Company, error)
	SendPrequalificationInfo(ctx context.Context, id string) (*models.Company, error)
	EnablePrequalificationEditing(ctx context.Context, id string) (*models.Company, error)
	Prequalify(ctx context.Context, id string, qualified bool, verdicts *models.Qualification) (*models.Company, error)
	AddDifotScores(ctx context.Context, scores []company.DifotInput) error
	ValidateProductsInfo(ctx context.Context, id string, checkedItems []string) (*models.Company, error)
	Block(ctx context.Context, b *models.BlockedCompany, createdUserID string) error
	Unblock(ctx context.Context, supplierID string) error

	CreateDueDiligence(ctx context.Context, d *models.DueDiligence, createdUserID string) (*models.DueDiligence, error)
	UpdateDueDiligence(ctx context.Context, id string, file, risk string, date, expireDate time.Time) (*models.DueDiligence, error)
	EnableDueDiligenceEditing(ctx context.Context, id string) (*models.DueDiligence, error)
	DueDiligenceStatus(ctx context.Context, supplierID string, now time.Time) (*models.DueDiligence, bool, error)
}

type CompanyHandler struct {
	Svc CompanyService
	Now func() time.Time
}

func NewCompanyHandler(svc CompanyService) *CompanyHandler {
	return &CompanyHandler{Svc: svc, Now: time.Now}
}

func (h *CompanyHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Companies atende /api/companies (lista e criação).
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		q := r.URL.Query()
		limit := int64(50)
		skip := int64(0)
		if l := q.Get("limit"); l != "" {
			if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
				limit = v
			}
		}
		if sk := q.Get("skip"); sk != "" {
			if v, err := strconv.ParseInt(sk, 10, 64); err == nil && v >= 0 {
				skip = v
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		list, err := h.Svc.List(ctx, limit, skip)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in company.CreateInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		c, err := h.Svc.Create(ctx, in, actor.UserID)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, c)

	default:
		methodNotAllowed(w)
	}
}

// CompanyByPath atende /api/companies/{id} e as sub-rotas de ação.
func (h *CompanyHandler) CompanyByPath(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "companies" {
		notFound(w)
		return
	}
	id := parts[2]

	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}

	// fornecedor só enxerga e mexe na própria empresa
	if actor.IsSupplier() && actor.CompanyID != id {
		writeErr(w, eligibility.ErrPermissionDenied)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		c, err := h.Svc.Get(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	// PUT /api/companies/{id}/sections/{name}
	case len(parts) == 5 && parts[3] == "sections" && r.Method == http.MethodPut:
		if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
			writeErr(w, err)
			return
		}
		var doc bson.M
		if err := utils.DecodeStrict(r.Body, &doc); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		c, err := h.Svc.UpdateSection(ctx, id, parts[4], doc)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case len(parts) == 4 && r.Method == http.MethodPost:
		h.action(ctx, w, r, actor, id, parts[3])

	default:
		methodNotAllowed(w)
	}
}

func (h *CompanyHandler) action(ctx context.Context, w http.ResponseWriter, r *http.Request, actor models.Actor, id, action string) {
	switch action {
	case "send-registration":
		if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
			writeErr(w, err)
			return
		}
		c, err := h.Svc.SendRegistrationInfo(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case "send-prequalification":
		if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
			writeErr(w, err)
			return
		}
		c, err := h.Svc.SendPrequalificationInfo(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case "enable-prequalification":
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		c, err := h.Svc.EnablePrequalificationEditing(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case "prequalify":
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		var in struct {
			Qualified bool                  `json:"qualified"`
			Verdicts  *models.Qualification `json:"verdicts,omitempty"`
		}
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		c, err := h.Svc.Prequalify(ctx, id, in.Qualified, in.Verdicts)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case "validate-products":
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		var in struct {
			CheckedItems []string `json:"checkedItems"`
		}
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		c, err := h.Svc.ValidateProductsInfo(ctx, id, in.CheckedItems)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case "block":
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		var b models.BlockedCompany
		if err := utils.DecodeStrict(r.Body, &b); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		b.SupplierID = id
		if err := h.Svc.Block(ctx, &b, actor.UserID); err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "blocked"})

	case "unblock":
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		if err := h.Svc.Unblock(ctx, id); err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "unblocked"})

	default:
		notFound(w)
	}
}

// DueDiligences atende /api/due-diligences e as rotas por id. Avaliações de
// risco são exclusivas do comprador, no mesmo padrão dos audits físicos.
func (h *CompanyHandler) DueDiligences(w http.ResponseWriter, r *http.Request) {
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
		var d models.DueDiligence
		if err := utils.DecodeStrict(r.Body, &d); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		created, err := h.Svc.CreateDueDiligence(ctx, &d, actor.UserID)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, created)

	case len(parts) == 3 && r.Method == http.MethodPut:
		var in struct {
			File       string    `json:"file,omitempty"`
			Risk       string    `json:"risk,omitempty"`
			Date       time.Time `json:"date"`
			ExpireDate time.Time `json:"expireDate"`
		}
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		d, err := h.Svc.UpdateDueDiligence(ctx, parts[2], in.File, in.Risk, in.Date, in.ExpireDate)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, d)

	case len(parts) == 4 && parts[3] == "enable" && r.Method == http.MethodPost:
		d, err := h.Svc.EnableDueDiligenceEditing(ctx, parts[2])
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, d)

	// GET /api/due-diligences/{supplierId}/status
	case len(parts) == 4 && parts[3] == "status" && r.Method == http.MethodGet:
		d, expired, err := h.Svc.DueDiligenceStatus(ctx, parts[2], h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"dueDiligence": d,
			"isExpired":    expired,
		})

	default:
		methodNotAllowed(w)
	}
}

// DifotScores atende POST /api/difot-scores com um lote de amostras.
func (h *CompanyHandler) DifotScores(w http.ResponseWriter, r *http.Request) {
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

	var in struct {
		Scores []company.DifotInput `json:"scores"`
	}
	if err := utils.DecodeStrict(r.Body, &in); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.Svc.AddDifotScores(ctx, in.Scores); err != nil {
		writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
