package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/feedback"
	"supplierportal/internal/models"
	"supplierportal/internal/utils"
)

type FeedbackService interface {
	Create(ctx context.Context, in feedback.CreateInput, createdUserID string) (*models.Feedback, error)
	Get(ctx context.Context, id string) (*models.Feedback, error)
	CreateResponse(ctx context.Context, feedbackID string, actor models.Actor, doc bson.M, now time.Time) (*models.FeedbackResponse, error)
}

type FeedbackHandler struct {
	Svc FeedbackService
	Now func() time.Time
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{Svc: svc, Now: time.Now}
}

// Feedbacks atende POST /api/feedbacks.
func (h *FeedbackHandler) Feedbacks(w http.ResponseWriter, r *http.Request) {
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

	var in feedback.CreateInput
	if err := utils.DecodeStrict(r.Body, &in); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	f, err := h.Svc.Create(ctx, in, actor.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, f)
}

// FeedbackByPath atende /api/feedbacks/{id} e /api/feedbacks/{id}/responses.
func (h *FeedbackHandler) FeedbackByPath(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "feedbacks" {
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
		f, err := h.Svc.Get(ctx, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, f)

	case len(parts) == 4 && parts[3] == "responses" && r.Method == http.MethodPost:
		var doc bson.M
		if err := utils.DecodeStrict(r.Body, &doc); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		resp, err := h.Svc.CreateResponse(ctx, id, actor, doc, h.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, resp)

	default:
		methodNotAllowed(w)
	}
}
