package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/tender"
	"supplierportal/internal/utils"
)

type TenderService interface {
	Create(ctx context.Context, in tender.CreateInput, createdUserID string, now time.Time) (*models.Tender, error)
	Get(ctx context.Context, id string) (*models.Tender, error)
	List(ctx context.Context, limit, skip int64) ([]models.Tender, error)
	Edit(ctx context.Context, id string, in tender.CreateInput) (*models.Tender, error)
	Remove(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string, now time.Time) (*models.Tender, error)
	Award(ctx context.Context, id, supplierID string, now time.Time) (*models.Tender, error)
	SendRegretLetter(ctx context.Context, id, subject, content string, now time.Time) ([]string, error)

	CreateResponse(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error)
	UpdateResponse(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error)
	SendResponse(ctx context.Context, tenderID string, actor models.Actor, now time.Time) (*models.TenderResponse, error)
	ListResponses(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderResponse, error)
	GetOwnResponse(ctx context.Context, tenderID string, actor models.Actor) (*models.TenderResponse, error)

	SendMessage(ctx context.Context, tenderID string, actor models.Actor, in tender.MessageInput, now time.Time) (*models.TenderMessage, error)
	ListMessages(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderMessage, error)
}

type TenderHandler struct {
	Svc TenderService

	// injetável nos testes
	Now func() time.Time
}

func NewTenderHandler(svc TenderService) *TenderHandler {
	return &TenderHandler{Svc: svc, Now: time.Now}
}

// Tenders atende /api/tenders (lista e criação, ambos de comprador).
func (h *TenderHandler) Tenders(w http.ResponseWriter, r *http.Request) {
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

	switch r.Method {
	case http.MethodGet:
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
		list, err := h.Svc.List(ctx, limit, skip)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in tender.CreateInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		t, err := h.Svc.Create(ctx, in, actor.UserID, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, t)

	default:
		methodNotAllowed(w)
	}
}

// TenderByPath atende /api/tenders/{id} e as sub-rotas.
func (h *TenderHandler) TenderByPath(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "tenders" {
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

	if len(parts) == 3 {
		h.tenderRoot(ctx, w, r, actor, id)
		return
	}

	switch parts[3] {
	case "award", "regret-letter", "cancel":
		if len(parts) != 4 || r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		h.buyerAction(ctx, w, r, id, parts[3])

	case "responses":
		h.responses(ctx, w, r, actor, id, parts[3:])

	case "messages":
		h.messages(ctx, w, r, actor, id)

	default:
		notFound(w)
	}
}

func (h *TenderHandler) tenderRoot(ctx context.Context, w http.ResponseWriter, r *http.Request, actor models.Actor, id string) {
	switch r.Method {
	case http.MethodGet:
		t, err := h.Svc.Get(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		// fornecedor não convidado não enxerga o tender
		if actor.IsSupplier() && !t.Participates(actor.CompanyID) {
			writeErr(w, eligibility.ErrTenderNotAvailable)
			return
		}
		utils.WriteJSON(w, http.StatusOK, t)

	case http.MethodPut:
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		var in tender.CreateInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		t, err := h.Svc.Edit(ctx, id, in)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
			writeErr(w, err)
			return
		}
		if err := h.Svc.Remove(ctx, id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (h *TenderHandler) buyerAction(ctx context.Context, w http.ResponseWriter, r *http.Request, id, action string) {
	switch action {
	case "award":
		var in struct {
			SupplierID string `json:"supplierId"`
		}
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		t, err := h.Svc.Award(ctx, id, in.SupplierID, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, t)

	case "regret-letter":
		var in struct {
			Subject string `json:"subject"`
			Content string `json:"content"`
		}
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		sent, err := h.Svc.SendRegretLetter(ctx, id, in.Subject, in.Content, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"sentSupplierIds": sent})

	case "cancel":
		t, err := h.Svc.Cancel(ctx, id, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, t)
	}
}

func (h *TenderHandler) responses(ctx context.Context, w http.ResponseWriter, r *http.Request, actor models.Actor, id string, rest []string) {
	switch {
	// /api/tenders/{id}/responses
	case len(rest) == 1:
		switch r.Method {
		case http.MethodGet:
			list, err := h.Svc.ListResponses(ctx, id, actor)
			if err != nil {
				writeErr(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusOK, list)

		case http.MethodPost:
			var in tender.ResponseInput
			if err := utils.DecodeStrict(r.Body, &in); err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			resp, err := h.Svc.CreateResponse(ctx, id, actor, in)
			if err != nil {
				writeErr(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusCreated, resp)

		case http.MethodPut:
			var in tender.ResponseInput
			if err := utils.DecodeStrict(r.Body, &in); err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			resp, err := h.Svc.UpdateResponse(ctx, id, actor, in)
			if err != nil {
				writeErr(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusOK, resp)

		default:
			methodNotAllowed(w)
		}

	// /api/tenders/{id}/responses/own
	case len(rest) == 2 && rest[1] == "own" && r.Method == http.MethodGet:
		resp, err := h.Svc.GetOwnResponse(ctx, id, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, resp)

	// /api/tenders/{id}/responses/send
	case len(rest) == 2 && rest[1] == "send" && r.Method == http.MethodPost:
		resp, err := h.Svc.SendResponse(ctx, id, actor, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, resp)

	default:
		notFound(w)
	}
}

func (h *TenderHandler) messages(ctx context.Context, w http.ResponseWriter, r *http.Request, actor models.Actor, id string) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.Svc.ListMessages(ctx, id, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in tender.MessageInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		m, err := h.Svc.SendMessage(ctx, id, actor, in, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, m)

	default:
		methodNotAllowed(w)
	}
}
