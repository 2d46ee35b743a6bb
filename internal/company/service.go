// Package company implementa o ciclo de vida do perfil de fornecedor:
// cadastro, edição por seção, estágios de registro e pré-qualificação,
// DIFOT, validação de produtos e bloqueio.
package company

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
	"supplierportal/internal/models"
	"supplierportal/internal/sections"
)

var ErrUnknownSection = errors.New("unknown section")

type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) (string, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error)
	Save(ctx context.Context, c *models.Company) error
}

type BlockedStore interface {
	Upsert(ctx context.Context, b *models.BlockedCompany) error
	DeleteBySupplier(ctx context.Context, supplierID string) error
	ListBySupplier(ctx context.Context, supplierID string) ([]models.BlockedCompany, error)
}

type QualificationStore interface {
	Upsert(ctx context.Context, q *models.Qualification) error
}

type DueDiligenceStore interface {
	Create(ctx context.Context, d *models.DueDiligence) (string, error)
	GetByID(ctx context.Context, id string) (*models.DueDiligence, error)
	Save(ctx context.Context, d *models.DueDiligence) error
	LatestBySupplier(ctx context.Context, supplierID string) (*models.DueDiligence, error)
}

type Service struct {
	Companies      CompanyStore
	Blocked        BlockedStore
	Qualifications QualificationStore
	DueDiligences  DueDiligenceStore
	Log            *slog.Logger

	validate *validator.Validate
}

func NewService(companies CompanyStore, blocked BlockedStore, quals QualificationStore, dds DueDiligenceStore, log *slog.Logger) *Service {
	return &Service{
		Companies:      companies,
		Blocked:        blocked,
		Qualifications: quals,
		DueDiligences:  dds,
		Log:            log,
		validate:       validator.New(),
	}
}

type CreateInput struct {
	EnName string `json:"enName" validate:"required"`
	MnName string `json:"mnName,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdUserID string) (*models.Company, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	c := &models.Company{
		ID: uuid.NewString(),
		BasicInfo: bson.M{
			"enName": in.EnName,
		},
		CreatedUserID: createdUserID,
	}
	if in.MnName != "" {
		c.BasicInfo["mnName"] = in.MnName
	}
	if in.Email != "" {
		c.BasicInfo["email"] = in.Email
	}

	if _, err := s.Companies.Create(ctx, c); err != nil {
		return nil, err
	}
	s.Log.Info("company_created", "company_id", c.ID, "name", c.Name())
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Company, error) {
	return s.Companies.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	return s.Companies.GetAll(ctx, limit, skip)
}

// UpdateSection troca uma seção inteira pelo doc enviado, passando pelo hook
// da seção. Seções pré-qualificatórias ficam travadas depois que o pacote é
// enviado, até um comprador reabrir.
func (s *Service) UpdateSection(ctx context.Context, id, name string, doc bson.M) (*models.Company, error) {
	section, ok := sections.Company(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}

	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section.Gated {
		if err := eligibility.RequireEditable(c.IsPrequalificationInfoEditable); err != nil {
			return nil, err
		}
	}

	section.Set(c, doc)
	if section.Post != nil {
		section.Post(c)
	}
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SendRegistrationInfo marca o estágio de registro como concluído; a partir
// daqui o fornecedor entra na base de destinatários de tenders isToAll.
func (s *Service) SendRegistrationInfo(ctx context.Context, id string) (*models.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsSentRegistrationInfo = true
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}
	s.Log.Info("registration_info_sent", "company_id", c.ID)
	return c, nil
}

// SendPrequalificationInfo envia o pacote de pré-qualificação e congela as
// seções gated até o comprador reabrir.
func (s *Service) SendPrequalificationInfo(ctx context.Context, id string) (*models.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsSentPrequalificationInfo = true
	c.IsPrequalificationInfoEditable = false
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}
	s.Log.Info("prequalification_info_sent", "company_id", c.ID)
	return c, nil
}

// EnablePrequalificationEditing reabre as seções gated (ação de comprador).
func (s *Service) EnablePrequalificationEditing(ctx context.Context, id string) (*models.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsPrequalificationInfoEditable = true
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Prequalify grava o veredito do comprador. Os vereditos por seção, quando
// enviados, ficam no documento de qualificação separado.
func (s *Service) Prequalify(ctx context.Context, id string, qualified bool, verdicts *models.Qualification) (*models.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsPrequalified = qualified
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}

	if verdicts != nil {
		verdicts.SupplierID = c.ID
		if verdicts.ID == "" {
			verdicts.ID = uuid.NewString()
		}
		if err := s.Qualifications.Upsert(ctx, verdicts); err != nil {
			return nil, err
		}
	}
	s.Log.Info("company_prequalified", "company_id", c.ID, "qualified", qualified)
	return c, nil
}

type DifotInput struct {
	SupplierID string    `json:"supplierId" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	Amount     float64   `json:"amount"`
}

// AddDifotScores anexa amostras de DIFOT e recalcula a média aritmética de
// cada fornecedor afetado. Um fornecedor inexistente não derruba o lote.
func (s *Service) AddDifotScores(ctx context.Context, scores []DifotInput) error {
	var errs []error
	for _, in := range scores {
		if err := s.validate.Struct(in); err != nil {
			errs = append(errs, err)
			continue
		}
		c, err := s.Companies.GetByID(ctx, in.SupplierID)
		if err != nil {
			errs = append(errs, fmt.Errorf("difot %s: %w", in.SupplierID, err))
			continue
		}

		c.DifotScores = append(c.DifotScores, models.DifotScore{Date: in.Date, Amount: in.Amount})
		var sum float64
		for _, d := range c.DifotScores {
			sum += d.Amount
		}
		c.AverageDifotScore = sum / float64(len(c.DifotScores))

		if err := s.Companies.Save(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("difot %s: %w", in.SupplierID, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateProductsInfo registra quais códigos o comprador confirmou de fato.
// Itens fora da lista declarada são ignorados; nenhum item confirmado derruba
// a flag de validação.
func (s *Service) ValidateProductsInfo(ctx context.Context, id string, checkedItems []string) (*models.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	declared := map[string]bool{}
	for _, p := range c.ProductsInfo {
		declared[p] = true
	}
	validated := []string{}
	for _, item := range checkedItems {
		if declared[item] {
			validated = append(validated, item)
		}
	}

	c.ValidatedProductsInfo = validated
	c.IsProductsInfoValidated = len(validated) > 0
	if err := s.Companies.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Block abre (ou reajusta) a janela de bloqueio de um fornecedor.
func (s *Service) Block(ctx context.Context, b *models.BlockedCompany, createdUserID string) error {
	if b.SupplierID == "" {
		return errors.New("supplierId is required")
	}
	if b.EndDate.Before(b.StartDate) {
		return errors.New("endDate must not precede startDate")
	}
	if _, err := s.Companies.GetByID(ctx, b.SupplierID); err != nil {
		return err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedUserID = createdUserID
	if err := s.Blocked.Upsert(ctx, b); err != nil {
		return err
	}
	s.Log.Info("company_blocked", "company_id", b.SupplierID, "until", b.EndDate)
	return nil
}

func (s *Service) Unblock(ctx context.Context, supplierID string) error {
	if err := s.Blocked.DeleteBySupplier(ctx, supplierID); err != nil {
		return err
	}
	s.Log.Info("company_unblocked", "company_id", supplierID)
	return nil
}

// IsBlocked avalia os registros de bloqueio do fornecedor no instante dado.
func (s *Service) IsBlocked(ctx context.Context, supplierID string, now time.Time) (bool, error) {
	blocks, err := s.Blocked.ListBySupplier(ctx, supplierID)
	if err != nil {
		return false, err
	}
	return eligibility.Blocked(blocks, now), nil
}

// CreateDueDiligence abre uma avaliação de risco; nasce travada, o comprador
// reabre quando quiser complementar.
func (s *Service) CreateDueDiligence(ctx context.Context, d *models.DueDiligence, createdUserID string) (*models.DueDiligence, error) {
	if d.SupplierID == "" {
		return nil, errors.New("supplierId is required")
	}
	d.ID = uuid.NewString()
	d.CreatedUserID = createdUserID
	if _, err := s.DueDiligences.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDueDiligence(ctx context.Context, id string, file, risk string, date, expireDate time.Time) (*models.DueDiligence, error) {
	d, err := s.DueDiligences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := eligibility.RequireEditable(d.IsEditable); err != nil {
		return nil, err
	}

	d.File = file
	d.Risk = risk
	d.Date = date
	d.ExpireDate = expireDate
	d.IsEditable = false
	if err := s.DueDiligences.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) EnableDueDiligenceEditing(ctx context.Context, id string) (*models.DueDiligence, error) {
	d, err := s.DueDiligences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.IsEditable = true
	if err := s.DueDiligences.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DueDiligenceStatus devolve a avaliação mais recente e se já venceu.
func (s *Service) DueDiligenceStatus(ctx context.Context, supplierID string, now time.Time) (*models.DueDiligence, bool, error) {
	d, err := s.DueDiligences.LatestBySupplier(ctx, supplierID)
	if err != nil {
		return nil, false, err
	}
	return d, d.Expired(now), nil
}
