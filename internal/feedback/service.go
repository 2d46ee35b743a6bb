// Package feedback implementa os pedidos de "success story": o comprador abre
// a janela, fornecedores convidados respondem uma vez cada.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/repository"
)

var ErrFeedbackNotAvailable = errors.New("This feedback is not available")

type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) (string, error)
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	CloseDue(ctx context.Context, now time.Time) (int64, error)
}

type ResponseStore interface {
	Insert(ctx context.Context, resp *models.FeedbackResponse) error
	GetByFeedbackAndSupplier(ctx context.Context, feedbackID, supplierID string) (*models.FeedbackResponse, error)
}

type Service struct {
	Feedbacks FeedbackStore
	Responses ResponseStore
	Log       *slog.Logger

	validate *validator.Validate
}

func NewService(feedbacks FeedbackStore, responses ResponseStore, log *slog.Logger) *Service {
	return &Service{
		Feedbacks: feedbacks,
		Responses: responses,
		Log:       log,
		validate:  validator.New(),
	}
}

type CreateInput struct {
	SupplierIDs []string  `json:"supplierIds" validate:"required,min=1"`
	CloseDate   time.Time `json:"closeDate" validate:"required"`
	Content     string    `json:"content,omitempty"`
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdUserID string) (*models.Feedback, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	f := &models.Feedback{
		ID:            uuid.NewString(),
		Status:        models.FeedbackOpen,
		SupplierIDs:   in.SupplierIDs,
		CloseDate:     in.CloseDate,
		Content:       in.Content,
		CreatedUserID: createdUserID,
	}
	if _, err := s.Feedbacks.Create(ctx, f); err != nil {
		return nil, err
	}
	s.Log.Info("feedback_created", "feedback_id", f.ID)
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Feedback, error) {
	return s.Feedbacks.GetByID(ctx, id)
}

// CloseOpens fecha toda janela vencida; chamada pelo agendador.
func (s *Service) CloseOpens(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.Feedbacks.CloseDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Log.Info("feedbacks_closed", "count", n)
	}
	return n, nil
}

// CreateResponse grava a resposta do fornecedor. Uma por par
// (feedbackId, supplierId); chamada repetida devolve a existente.
func (s *Service) CreateResponse(ctx context.Context, feedbackID string, actor models.Actor, doc bson.M, now time.Time) (*models.FeedbackResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}

	f, err := s.Feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if f.Status != models.FeedbackOpen {
		return nil, ErrFeedbackNotAvailable
	}
	participates := false
	for _, id := range f.SupplierIDs {
		if id == actor.CompanyID {
			participates = true
			break
		}
	}
	if !participates {
		return nil, eligibility.ErrNotParticipated
	}

	existing, err := s.Responses.GetByFeedbackAndSupplier(ctx, feedbackID, actor.CompanyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	resp := &models.FeedbackResponse{
		ID:         uuid.NewString(),
		FeedbackID: feedbackID,
		SupplierID: actor.CompanyID,
		Doc:        doc,
		Status:     models.ResponseOnTime,
	}
	if now.After(f.CloseDate) {
		resp.Status = models.ResponseLate
	}

	if err := s.Responses.Insert(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			return s.Responses.GetByFeedbackAndSupplier(ctx, feedbackID, actor.CompanyID)
		}
		return nil, err
	}
	s.Log.Info("feedback_response_created", "feedback_id", feedbackID, "company_id", actor.CompanyID)
	return resp, nil
}
