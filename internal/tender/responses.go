package tender

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/repository"
)

type ResponseInput struct {
	IsNotInterested    bool     `json:"isNotInterested"`
	RespondedProducts  []bson.M `json:"respondedProducts,omitempty"`
	RespondedDocuments []bson.M `json:"respondedDocuments,omitempty"`
	RespondedFiles     []string `json:"respondedFiles,omitempty"`
}

// CreateResponse cria (ou devolve) a resposta do fornecedor. O par
// (tenderId, supplierId) é único; chamada repetida devolve o registro
// existente em vez de duplicar.
func (s *Service) CreateResponse(ctx context.Context, tenderID string, actor models.Actor, in ResponseInput) (*models.TenderResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}

	t, supplier, err := s.loadPair(ctx, tenderID, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := eligibility.CanRespond(t, supplier); err != nil {
		return nil, err
	}

	existing, err := s.Responses.GetByTenderAndSupplier(ctx, tenderID, actor.CompanyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	resp := &models.TenderResponse{
		ID:                 uuid.NewString(),
		TenderID:           tenderID,
		SupplierID:         actor.CompanyID,
		IsNotInterested:    in.IsNotInterested,
		RespondedProducts:  in.RespondedProducts,
		RespondedDocuments: in.RespondedDocuments,
		RespondedFiles:     in.RespondedFiles,
	}
	if err := s.Responses.Insert(ctx, resp); err != nil {
		// corrida com outra criação: o índice único decidiu, leia o vencedor
		if errors.Is(err, repository.ErrDuplicateResponse) {
			return s.Responses.GetByTenderAndSupplier(ctx, tenderID, actor.CompanyID)
		}
		return nil, err
	}
	s.Log.Info("tender_response_created", "tender_id", tenderID, "company_id", actor.CompanyID)
	return resp, nil
}

// UpdateResponse substitui o conteúdo da resposta; exige os mesmos portões da
// criação e nunca mexe em isSent/sentDate.
func (s *Service) UpdateResponse(ctx context.Context, tenderID string, actor models.Actor, in ResponseInput) (*models.TenderResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}

	t, supplier, err := s.loadPair(ctx, tenderID, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := eligibility.CanRespond(t, supplier); err != nil {
		return nil, err
	}

	resp, err := s.Responses.GetByTenderAndSupplier(ctx, tenderID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}

	resp.IsNotInterested = in.IsNotInterested
	resp.RespondedProducts = in.RespondedProducts
	resp.RespondedDocuments = in.RespondedDocuments
	resp.RespondedFiles = in.RespondedFiles
	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendResponse congela a resposta e carimba onTime/late contra o prazo.
// Reenviar é no-op: o primeiro envio decide o status para sempre.
func (s *Service) SendResponse(ctx context.Context, tenderID string, actor models.Actor, now time.Time) (*models.TenderResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}

	t, err := s.Tenders.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if err := eligibility.CanSend(t); err != nil {
		return nil, err
	}

	resp, err := s.Responses.GetByTenderAndSupplier(ctx, tenderID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	if resp.IsSent {
		return resp, nil
	}

	resp.IsSent = true
	resp.SentDate = now
	if now.After(t.ResponseDeadline()) {
		resp.Status = models.ResponseLate
	} else {
		resp.Status = models.ResponseOnTime
	}
	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	s.Log.Info("tender_response_sent", "tender_id", tenderID, "company_id", actor.CompanyID, "status", resp.Status)
	return resp, nil
}

// ListResponses é visão de comprador.
func (s *Service) ListResponses(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleBuyer); err != nil {
		return nil, err
	}
	return s.Responses.ListByTender(ctx, tenderID)
}

// GetOwnResponse é visão de fornecedor.
func (s *Service) GetOwnResponse(ctx context.Context, tenderID string, actor models.Actor) (*models.TenderResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}
	resp, err := s.Responses.GetByTenderAndSupplier(ctx, tenderID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	return resp, nil
}

func (s *Service) loadPair(ctx context.Context, tenderID, companyID string) (*models.Tender, *models.Company, error) {
	t, err := s.Tenders.GetByID(ctx, tenderID)
	if err != nil {
		return nil, nil, err
	}
	supplier, err := s.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	return t, supplier, nil
}
