package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/repository"
)

type auditStoreMock struct {
	CreateFunc  func(ctx context.Context, a *models.Audit) (string, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Audit, error)
}

func (m *auditStoreMock) Create(ctx context.Context, a *models.Audit) (string, error) {
	return m.CreateFunc(ctx, a)
}
func (m *auditStoreMock) GetByID(ctx context.Context, id string) (*models.Audit, error) {
	return m.GetByIDFunc(ctx, id)
}

type responseStoreMock struct {
	InsertFunc                func(ctx context.Context, resp *models.AuditResponse) error
	GetByAuditAndSupplierFunc func(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)
	SaveFunc                  func(ctx context.Context, resp *models.AuditResponse) error
}

func (m *responseStoreMock) Insert(ctx context.Context, resp *models.AuditResponse) error {
	return m.InsertFunc(ctx, resp)
}
func (m *responseStoreMock) GetByAuditAndSupplier(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	return m.GetByAuditAndSupplierFunc(ctx, auditID, supplierID)
}
func (m *responseStoreMock) Save(ctx context.Context, resp *models.AuditResponse) error {
	return m.SaveFunc(ctx, resp)
}

type physicalStoreMock struct {
	CreateFunc  func(ctx context.Context, a *models.PhysicalAudit) (string, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.PhysicalAudit, error)
	SaveFunc    func(ctx context.Context, a *models.PhysicalAudit) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *physicalStoreMock) Create(ctx context.Context, a *models.PhysicalAudit) (string, error) {
	return m.CreateFunc(ctx, a)
}
func (m *physicalStoreMock) GetByID(ctx context.Context, id string) (*models.PhysicalAudit, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *physicalStoreMock) Save(ctx context.Context, a *models.PhysicalAudit) error {
	return m.SaveFunc(ctx, a)
}
func (m *physicalStoreMock) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var baseNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func openAudit() *models.Audit {
	return &models.Audit{
		ID:          "a-1",
		SupplierIDs: []string{"sup-1"},
		PublishDate: baseNow.Add(-24 * time.Hour),
		CloseDate:   baseNow.Add(24 * time.Hour),
	}
}

func serviceWith(a *models.Audit, resp *models.AuditResponse, saved **models.AuditResponse) *Service {
	return &Service{
		Audits: &auditStoreMock{
			GetByIDFunc: func(ctx context.Context, id string) (*models.Audit, error) { return a, nil },
		},
		Responses: &responseStoreMock{
			GetByAuditAndSupplierFunc: func(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
				if resp == nil {
					return nil, repository.ErrNotFound
				}
				return resp, nil
			},
			InsertFunc: func(ctx context.Context, r *models.AuditResponse) error { return nil },
			SaveFunc: func(ctx context.Context, r *models.AuditResponse) error {
				*saved = r
				return nil
			},
		},
		Log:      testLogger(),
		validate: validator.New(),
	}
}

func TestSaveSectionKeepsOtherRoleSide(t *testing.T) {
	resp := &models.AuditResponse{
		ID: "r-1", AuditID: "a-1", SupplierID: "sup-1",
		CoreHseqInfo: bson.M{
			"doesHaveHealthSafety": bson.M{
				"supplierComment": "temos política",
				"supplierAnswer":  true,
			},
		},
	}
	var saved *models.AuditResponse
	s := serviceWith(openAudit(), resp, &saved)

	buyer := models.Actor{UserID: "u-9", Role: models.RoleBuyer}
	got, err := s.SaveSection(context.Background(), "a-1", "sup-1", "coreHseqInfo", bson.M{
		"doesHaveHealthSafety": bson.M{
			"auditorScore":    4,
			"supplierComment": "tentativa de sobrescrever",
		},
	}, buyer, baseNow)
	if err != nil {
		t.Fatalf("SaveSection: %v", err)
	}

	q := got.CoreHseqInfo["doesHaveHealthSafety"].(bson.M)
	if q["supplierComment"] != "temos política" {
		t.Fatalf("lado do fornecedor foi sobrescrito: %v", q)
	}
	if q["auditorScore"] != 4 {
		t.Fatalf("lado do auditor não entrou: %v", q)
	}
	if saved == nil {
		t.Fatal("resposta não foi salva")
	}
}

func TestSaveSectionSupplierCannotWriteForOther(t *testing.T) {
	var saved *models.AuditResponse
	s := serviceWith(openAudit(), nil, &saved)

	actor := models.Actor{UserID: "u-1", Role: models.RoleSupplier, CompanyID: "sup-1"}
	_, err := s.SaveSection(context.Background(), "a-1", "sup-2", "hrInfo", bson.M{}, actor, baseNow)
	if !errors.Is(err, eligibility.ErrPermissionDenied) {
		t.Fatalf("err = %v, esperava ErrPermissionDenied", err)
	}
}

func TestSaveSectionSupplierAfterCloseNeedsReopen(t *testing.T) {
	closed := openAudit()
	closed.CloseDate = baseNow.Add(-time.Hour)
	actor := models.Actor{UserID: "u-1", Role: models.RoleSupplier, CompanyID: "sup-1"}
	doc := bson.M{"workContractManagement": bson.M{"supplierAnswer": true}}

	t.Run("fechada_e_travada", func(t *testing.T) {
		resp := &models.AuditResponse{ID: "r-1", AuditID: "a-1", SupplierID: "sup-1"}
		var saved *models.AuditResponse
		s := serviceWith(closed, resp, &saved)

		_, err := s.SaveSection(context.Background(), "a-1", "sup-1", "hrInfo", doc, actor, baseNow)
		if !errors.Is(err, eligibility.ErrChangesDisabled) {
			t.Fatalf("err = %v, esperava ErrChangesDisabled", err)
		}
	})

	t.Run("reaberta_pelo_auditor", func(t *testing.T) {
		resp := &models.AuditResponse{ID: "r-1", AuditID: "a-1", SupplierID: "sup-1", IsEditable: true}
		var saved *models.AuditResponse
		s := serviceWith(closed, resp, &saved)

		if _, err := s.SaveSection(context.Background(), "a-1", "sup-1", "hrInfo", doc, actor, baseNow); err != nil {
			t.Fatalf("SaveSection: %v", err)
		}
		if saved == nil {
			t.Fatal("resposta não foi salva")
		}
	})
}

func TestSaveSectionBuyerIgnoresDeadline(t *testing.T) {
	closed := openAudit()
	closed.CloseDate = baseNow.Add(-time.Hour)
	resp := &models.AuditResponse{ID: "r-1", AuditID: "a-1", SupplierID: "sup-1"}
	var saved *models.AuditResponse
	s := serviceWith(closed, resp, &saved)

	buyer := models.Actor{UserID: "u-9", Role: models.RoleBuyer}
	doc := bson.M{"doesHavePolicyStatement": bson.M{"auditorRecommendation": "rever política"}}
	if _, err := s.SaveSection(context.Background(), "a-1", "sup-1", "businessInfo", doc, buyer, baseNow); err != nil {
		t.Fatalf("SaveSection: %v", err)
	}
	if saved == nil {
		t.Fatal("resposta não foi salva")
	}
}

func TestSaveSectionBasicInfoIsSupplierOnly(t *testing.T) {
	resp := &models.AuditResponse{ID: "r-1", AuditID: "a-1", SupplierID: "sup-1"}
	var saved *models.AuditResponse
	s := serviceWith(openAudit(), resp, &saved)

	buyer := models.Actor{UserID: "u-9", Role: models.RoleBuyer}
	_, err := s.SaveSection(context.Background(), "a-1", "sup-1", "basicInfo", bson.M{"enName": "x"}, buyer, baseNow)
	if !errors.Is(err, eligibility.ErrPermissionDenied) {
		t.Fatalf("err = %v, esperava ErrPermissionDenied", err)
	}

	supplier := models.Actor{UserID: "u-1", Role: models.RoleSupplier, CompanyID: "sup-1"}
	got, err := s.SaveSection(context.Background(), "a-1", "sup-1", "basicInfo", bson.M{"enName": "Acme"}, supplier, baseNow)
	if err != nil {
		t.Fatalf("SaveSection: %v", err)
	}
	if got.BasicInfo["enName"] != "Acme" {
		t.Fatalf("basicInfo = %v", got.BasicInfo)
	}
}

func TestSaveSectionUnknownName(t *testing.T) {
	resp := &models.AuditResponse{ID: "r-1", AuditID: "a-1", SupplierID: "sup-1"}
	var saved *models.AuditResponse
	s := serviceWith(openAudit(), resp, &saved)

	buyer := models.Actor{UserID: "u-9", Role: models.RoleBuyer}
	_, err := s.SaveSection(context.Background(), "a-1", "sup-1", "salaryInfo", bson.M{}, buyer, baseNow)
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err = %v, esperava ErrUnknownSection", err)
	}
}

func TestUpdatePhysicalAuditGatedOnEditable(t *testing.T) {
	a := &models.PhysicalAudit{ID: "p-1", SupplierID: "sup-1", IsEditable: false}
	s := &Service{
		PhysicalAudits: &physicalStoreMock{
			GetByIDFunc: func(ctx context.Context, id string) (*models.PhysicalAudit, error) { return a, nil },
			SaveFunc:    func(ctx context.Context, got *models.PhysicalAudit) error { return nil },
		},
		Log:      testLogger(),
		validate: validator.New(),
	}

	_, err := s.UpdatePhysicalAudit(context.Background(), "p-1", PhysicalAuditInput{SupplierID: "sup-1"})
	if !errors.Is(err, eligibility.ErrChangesDisabled) {
		t.Fatalf("err = %v, esperava ErrChangesDisabled", err)
	}

	// reabrir e tentar de novo
	if _, err := s.EnablePhysicalAuditEditing(context.Background(), "p-1"); err != nil {
		t.Fatalf("EnablePhysicalAuditEditing: %v", err)
	}
	got, err := s.UpdatePhysicalAudit(context.Background(), "p-1", PhysicalAuditInput{SupplierID: "sup-1", IsQualified: true})
	if err != nil {
		t.Fatalf("UpdatePhysicalAudit: %v", err)
	}
	if !got.IsQualified || got.IsEditable {
		t.Fatalf("flags erradas: qualified=%v editable=%v", got.IsQualified, got.IsEditable)
	}
}
