// Package audit implementa as rodadas de auditoria HSEQ: o fornecedor
// responde o questionário, o auditor recomenda e pontua, e as duas autorias
// convivem no mesmo documento sem se sobrescrever.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/merge"
	"supplierportal/internal/models"
	"supplierportal/internal/repository"
	"supplierportal/internal/sections"
)

var ErrUnknownSection = errors.New("unknown section")

type AuditStore interface {
	Create(ctx context.Context, a *models.Audit) (string, error)
	GetByID(ctx context.Context, id string) (*models.Audit, error)
}

type ResponseStore interface {
	Insert(ctx context.Context, resp *models.AuditResponse) error
	GetByAuditAndSupplier(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)
	Save(ctx context.Context, resp *models.AuditResponse) error
}

type PhysicalAuditStore interface {
	Create(ctx context.Context, a *models.PhysicalAudit) (string, error)
	GetByID(ctx context.Context, id string) (*models.PhysicalAudit, error)
	Save(ctx context.Context, a *models.PhysicalAudit) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	Audits         AuditStore
	Responses      ResponseStore
	PhysicalAudits PhysicalAuditStore
	Log            *slog.Logger

	validate *validator.Validate
}

func NewService(audits AuditStore, responses ResponseStore, physical PhysicalAuditStore, log *slog.Logger) *Service {
	return &Service{
		Audits:         audits,
		Responses:      responses,
		PhysicalAudits: physical,
		Log:            log,
		validate:       validator.New(),
	}
}

type CreateInput struct {
	SupplierIDs []string  `json:"supplierIds" validate:"required,min=1"`
	PublishDate time.Time `json:"publishDate" validate:"required"`
	CloseDate   time.Time `json:"closeDate" validate:"required"`
	Content     string    `json:"content,omitempty"`
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdUserID string) (*models.Audit, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.CloseDate.After(in.PublishDate) {
		return nil, errors.New("closeDate must come after publishDate")
	}

	a := &models.Audit{
		ID:            uuid.NewString(),
		SupplierIDs:   in.SupplierIDs,
		PublishDate:   in.PublishDate,
		CloseDate:     in.CloseDate,
		Content:       in.Content,
		CreatedUserID: createdUserID,
	}
	if _, err := s.Audits.Create(ctx, a); err != nil {
		return nil, err
	}
	s.Log.Info("audit_created", "audit_id", a.ID, "suppliers", len(a.SupplierIDs))
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Audit, error) {
	return s.Audits.GetByID(ctx, id)
}

// SaveSection aplica o lado do ator sobre uma seção da resposta de auditoria.
// basicInfo é substituição simples pelo fornecedor; as demais seções passam
// pelo merge particionado por papel, pergunta a pergunta.
func (s *Service) SaveSection(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error) {
	a, err := s.Audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if actor.IsSupplier() && actor.CompanyID != supplierID {
		return nil, eligibility.ErrPermissionDenied
	}

	resp, err := s.getOrCreateResponse(ctx, auditID, supplierID)
	if err != nil {
		return nil, err
	}

	// fornecedor escreve enquanto a rodada está aberta ou quando o auditor
	// reabriu a resposta; auditor escreve a qualquer momento
	if actor.IsSupplier() && !a.Open(now) && !resp.IsEditable {
		return nil, eligibility.ErrChangesDisabled
	}

	if name == "basicInfo" {
		if !actor.IsSupplier() {
			return nil, eligibility.ErrPermissionDenied
		}
		resp.BasicInfo = merge.Replace(doc)
	} else {
		section, ok := sections.Audit(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
		}
		merged := section.Merge(section.Get(resp), doc, actor.Role)
		section.Set(resp, merged)
	}

	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendResponse marca o pacote do fornecedor como enviado e fecha a edição.
func (s *Service) SendResponse(ctx context.Context, auditID string, actor models.Actor) (*models.AuditResponse, error) {
	if err := eligibility.RequireRole(actor, models.RoleSupplier); err != nil {
		return nil, err
	}
	resp, err := s.Responses.GetByAuditAndSupplier(ctx, auditID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	resp.IsSent = true
	resp.IsEditable = false
	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	s.Log.Info("audit_response_sent", "audit_id", auditID, "company_id", actor.CompanyID)
	return resp, nil
}

// EnableResponseEditing reabre a resposta para o fornecedor mesmo com a
// rodada vencida (ação de auditor).
func (s *Service) EnableResponseEditing(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	resp, err := s.Responses.GetByAuditAndSupplier(ctx, auditID, supplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	resp.IsEditable = true
	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Qualify registra o veredito do auditor sobre a resposta.
func (s *Service) Qualify(ctx context.Context, auditID, supplierID string, qualified bool) (*models.AuditResponse, error) {
	resp, err := s.Responses.GetByAuditAndSupplier(ctx, auditID, supplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	resp.IsQualified = qualified
	if err := s.Responses.Save(ctx, resp); err != nil {
		return nil, err
	}
	s.Log.Info("audit_response_qualified", "audit_id", auditID, "company_id", supplierID, "qualified", qualified)
	return resp, nil
}

func (s *Service) GetResponse(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	resp, err := s.Responses.GetByAuditAndSupplier(ctx, auditID, supplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, eligibility.ErrResponseNotFound
		}
		return nil, err
	}
	return resp, nil
}

func (s *Service) getOrCreateResponse(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	resp, err := s.Responses.GetByAuditAndSupplier(ctx, auditID, supplierID)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	resp = &models.AuditResponse{
		ID:         uuid.NewString(),
		AuditID:    auditID,
		SupplierID: supplierID,
	}
	if err := s.Responses.Insert(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			return s.Responses.GetByAuditAndSupplier(ctx, auditID, supplierID)
		}
		return nil, err
	}
	return resp, nil
}

// --- auditorias físicas ---

type PhysicalAuditInput struct {
	SupplierID          string `json:"supplierId" validate:"required"`
	IsQualified         bool   `json:"isQualified"`
	ReportFile          string `json:"reportFile,omitempty"`
	ImprovementPlanFile string `json:"improvementPlanFile,omitempty"`
}

func (s *Service) CreatePhysicalAudit(ctx context.Context, in PhysicalAuditInput, createdUserID string) (*models.PhysicalAudit, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	a := &models.PhysicalAudit{
		ID:                  uuid.NewString(),
		SupplierID:          in.SupplierID,
		IsQualified:         in.IsQualified,
		ReportFile:          in.ReportFile,
		ImprovementPlanFile: in.ImprovementPlanFile,
		CreatedUserID:       createdUserID,
	}
	if _, err := s.PhysicalAudits.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdatePhysicalAudit(ctx context.Context, id string, in PhysicalAuditInput) (*models.PhysicalAudit, error) {
	a, err := s.PhysicalAudits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := eligibility.RequireEditable(a.IsEditable); err != nil {
		return nil, err
	}

	a.IsQualified = in.IsQualified
	a.ReportFile = in.ReportFile
	a.ImprovementPlanFile = in.ImprovementPlanFile
	a.IsEditable = false
	if err := s.PhysicalAudits.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) EnablePhysicalAuditEditing(ctx context.Context, id string) (*models.PhysicalAudit, error) {
	a, err := s.PhysicalAudits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.IsEditable = true
	if err := s.PhysicalAudits.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) RemovePhysicalAudit(ctx context.Context, id string) error {
	return s.PhysicalAudits.Delete(ctx, id)
}
