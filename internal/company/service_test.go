package company

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
)

type companyStoreMock struct {
	CreateFunc  func(ctx context.Context, c *models.Company) (string, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Company, error)
	GetAllFunc  func(ctx context.Context, limit, skip int64) ([]models.Company, error)
	SaveFunc    func(ctx context.Context, c *models.Company) error
}

func (m *companyStoreMock) Create(ctx context.Context, c *models.Company) (string, error) {
	return m.CreateFunc(ctx, c)
}
func (m *companyStoreMock) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *companyStoreMock) GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	return m.GetAllFunc(ctx, limit, skip)
}
func (m *companyStoreMock) Save(ctx context.Context, c *models.Company) error {
	return m.SaveFunc(ctx, c)
}

type blockedStoreMock struct {
	UpsertFunc           func(ctx context.Context, b *models.BlockedCompany) error
	DeleteBySupplierFunc func(ctx context.Context, supplierID string) error
	ListBySupplierFunc   func(ctx context.Context, supplierID string) ([]models.BlockedCompany, error)
}

func (m *blockedStoreMock) Upsert(ctx context.Context, b *models.BlockedCompany) error {
	return m.UpsertFunc(ctx, b)
}
func (m *blockedStoreMock) DeleteBySupplier(ctx context.Context, supplierID string) error {
	return m.DeleteBySupplierFunc(ctx, supplierID)
}
func (m *blockedStoreMock) ListBySupplier(ctx context.Context, supplierID string) ([]models.BlockedCompany, error) {
	return m.ListBySupplierFunc(ctx, supplierID)
}

type dueDiligenceStoreMock struct {
	CreateFunc           func(ctx context.Context, d *models.DueDiligence) (string, error)
	GetByIDFunc          func(ctx context.Context, id string) (*models.DueDiligence, error)
	SaveFunc             func(ctx context.Context, d *models.DueDiligence) error
	LatestBySupplierFunc func(ctx context.Context, supplierID string) (*models.DueDiligence, error)
}

func (m *dueDiligenceStoreMock) Create(ctx context.Context, d *models.DueDiligence) (string, error) {
	return m.CreateFunc(ctx, d)
}
func (m *dueDiligenceStoreMock) GetByID(ctx context.Context, id string) (*models.DueDiligence, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *dueDiligenceStoreMock) Save(ctx context.Context, d *models.DueDiligence) error {
	return m.SaveFunc(ctx, d)
}
func (m *dueDiligenceStoreMock) LatestBySupplier(ctx context.Context, supplierID string) (*models.DueDiligence, error) {
	return m.LatestBySupplierFunc(ctx, supplierID)
}

// storeWith devolve um mock que serve sempre a mesma empresa e captura o Save.
func storeWith(c *models.Company, saved **models.Company) *companyStoreMock {
	return &companyStoreMock{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Company, error) {
			if id != c.ID {
				return nil, errors.New("not found")
			}
			return c, nil
		},
		SaveFunc: func(ctx context.Context, got *models.Company) error {
			*saved = got
			return nil
		},
	}
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestAddDifotScoresRecomputesAverage(t *testing.T) {
	c := &models.Company{ID: "sup-1"}
	var saved *models.Company
	s := &Service{Companies: storeWith(c, &saved), Log: testLogger(), validate: validator.New()}

	err := s.AddDifotScores(context.Background(), []DifotInput{
		{SupplierID: "sup-1", Date: time.Now(), Amount: 10},
	})
	if err != nil {
		t.Fatalf("AddDifotScores: %v", err)
	}
	err = s.AddDifotScores(context.Background(), []DifotInput{
		{SupplierID: "sup-1", Date: time.Now(), Amount: 11},
	})
	if err != nil {
		t.Fatalf("AddDifotScores: %v", err)
	}

	if len(saved.DifotScores) != 2 {
		t.Fatalf("len(DifotScores) = %d, esperava 2", len(saved.DifotScores))
	}
	if saved.AverageDifotScore != 10.5 {
		t.Fatalf("AverageDifotScore = %v, esperava 10.5", saved.AverageDifotScore)
	}
}

func TestAddDifotScoresUnknownSupplierDoesNotAbortBatch(t *testing.T) {
	c := &models.Company{ID: "sup-1"}
	var saved *models.Company
	s := &Service{Companies: storeWith(c, &saved), Log: testLogger(), validate: validator.New()}

	err := s.AddDifotScores(context.Background(), []DifotInput{
		{SupplierID: "ghost", Date: time.Now(), Amount: 3},
		{SupplierID: "sup-1", Date: time.Now(), Amount: 8},
	})
	if err == nil {
		t.Fatal("esperava erro agregado para o fornecedor inexistente")
	}
	if saved == nil || saved.AverageDifotScore != 8 {
		t.Fatalf("o fornecedor válido devia ter sido atualizado: %+v", saved)
	}
}

func TestValidateProductsInfo(t *testing.T) {
	cases := []struct {
		name          string
		declared      []string
		checked       []string
		wantValidated []string
		wantFlag      bool
	}{
		{"subconjunto", []string{"a01", "b02", "c03"}, []string{"a01", "c03"}, []string{"a01", "c03"}, true},
		{"fora_da_lista_ignorado", []string{"a01"}, []string{"a01", "zz9"}, []string{"a01"}, true},
		{"nenhum_confirmado", []string{"a01"}, []string{"zz9"}, []string{}, false},
		{"lista_vazia", []string{"a01"}, nil, []string{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &models.Company{ID: "sup-1", ProductsInfo: tc.declared}
			var saved *models.Company
			s := &Service{Companies: storeWith(c, &saved), Log: testLogger()}

			got, err := s.ValidateProductsInfo(context.Background(), "sup-1", tc.checked)
			if err != nil {
				t.Fatalf("ValidateProductsInfo: %v", err)
			}
			if !reflect.DeepEqual(got.ValidatedProductsInfo, tc.wantValidated) {
				t.Fatalf("ValidatedProductsInfo = %v, esperava %v", got.ValidatedProductsInfo, tc.wantValidated)
			}
			if got.IsProductsInfoValidated != tc.wantFlag {
				t.Fatalf("IsProductsInfoValidated = %v, esperava %v", got.IsProductsInfoValidated, tc.wantFlag)
			}
		})
	}
}

func TestUpdateGatedSectionWhileFrozen(t *testing.T) {
	c := &models.Company{ID: "sup-1", IsPrequalificationInfoEditable: false}
	var saved *models.Company
	s := &Service{Companies: storeWith(c, &saved), Log: testLogger()}

	_, err := s.UpdateSection(context.Background(), "sup-1", "financialInfo", bson.M{"currency": "USD"})
	if !errors.Is(err, eligibility.ErrChangesDisabled) {
		t.Fatalf("err = %v, esperava ErrChangesDisabled", err)
	}
	if saved != nil {
		t.Fatal("nada devia ter sido salvo")
	}
}

func TestUpdateUngatedSectionAlwaysAllowed(t *testing.T) {
	c := &models.Company{ID: "sup-1", IsPrequalificationInfoEditable: false}
	var saved *models.Company
	s := &Service{Companies: storeWith(c, &saved), Log: testLogger()}

	got, err := s.UpdateSection(context.Background(), "sup-1", "contactInfo", bson.M{"email": "x@acme.mn"})
	if err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if got.ContactInfo["email"] != "x@acme.mn" {
		t.Fatalf("seção não aplicada: %v", got.ContactInfo)
	}
}

func TestUpdateUnknownSection(t *testing.T) {
	s := &Service{Log: testLogger()}
	_, err := s.UpdateSection(context.Background(), "sup-1", "salaryInfo", bson.M{})
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err = %v, esperava ErrUnknownSection", err)
	}
}

func TestSendPrequalificationInfoFreezesEditing(t *testing.T) {
	c := &models.Company{ID: "sup-1", IsPrequalificationInfoEditable: true}
	var saved *models.Company
	s := &Service{Companies: storeWith(c, &saved), Log: testLogger()}

	got, err := s.SendPrequalificationInfo(context.Background(), "sup-1")
	if err != nil {
		t.Fatalf("SendPrequalificationInfo: %v", err)
	}
	if !got.IsSentPrequalificationInfo || got.IsPrequalificationInfoEditable {
		t.Fatalf("flags erradas: sent=%v editable=%v", got.IsSentPrequalificationInfo, got.IsPrequalificationInfoEditable)
	}
}

func TestBlockRejectsInvertedWindow(t *testing.T) {
	s := &Service{Log: testLogger()}
	b := &models.BlockedCompany{
		SupplierID: "sup-1",
		StartDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.Block(context.Background(), b, "u-1"); err == nil {
		t.Fatal("janela invertida devia ser rejeitada")
	}
}

func TestIsBlockedUsesClosedInterval(t *testing.T) {
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s := &Service{
		Blocked: &blockedStoreMock{
			ListBySupplierFunc: func(ctx context.Context, supplierID string) ([]models.BlockedCompany, error) {
				return []models.BlockedCompany{{
					SupplierID: supplierID,
					StartDate:  end.AddDate(0, 0, -5),
					EndDate:    end,
				}}, nil
			},
		},
		Log: testLogger(),
	}

	got, err := s.IsBlocked(context.Background(), "sup-1", end)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if !got {
		t.Fatal("o último instante da janela ainda conta como bloqueado")
	}

	got, err = s.IsBlocked(context.Background(), "sup-1", end.Add(time.Second))
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if got {
		t.Fatal("depois da janela não devia estar bloqueado")
	}
}

func TestUpdateDueDiligenceGatedOnEditable(t *testing.T) {
	// nasce travada; só reabre por ação explícita e o update volta a travar
	d := &models.DueDiligence{ID: "dd-1", SupplierID: "sup-1"}
	var saved *models.DueDiligence
	s := &Service{
		DueDiligences: &dueDiligenceStoreMock{
			GetByIDFunc: func(ctx context.Context, id string) (*models.DueDiligence, error) { return d, nil },
			SaveFunc:    func(ctx context.Context, got *models.DueDiligence) error { saved = got; return nil },
		},
		Log: testLogger(),
	}

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.UpdateDueDiligence(context.Background(), "dd-1", "report.pdf", "low", date, date.AddDate(1, 0, 0))
	if !errors.Is(err, eligibility.ErrChangesDisabled) {
		t.Fatalf("err = %v, esperava ErrChangesDisabled", err)
	}
	if saved != nil {
		t.Fatal("nada devia ter sido salvo com a avaliação travada")
	}

	if _, err := s.EnableDueDiligenceEditing(context.Background(), "dd-1"); err != nil {
		t.Fatalf("EnableDueDiligenceEditing: %v", err)
	}

	got, err := s.UpdateDueDiligence(context.Background(), "dd-1", "report.pdf", "low", date, date.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("UpdateDueDiligence: %v", err)
	}
	if got.Risk != "low" || got.File != "report.pdf" {
		t.Fatalf("avaliação não aplicada: %+v", got)
	}
	if got.IsEditable {
		t.Fatal("update devia travar a avaliação de novo")
	}
}

func TestDueDiligenceStatusReportsExpiry(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	d := &models.DueDiligence{ID: "dd-1", SupplierID: "sup-1", ExpireDate: now.AddDate(0, 0, -1)}
	s := &Service{
		DueDiligences: &dueDiligenceStoreMock{
			LatestBySupplierFunc: func(ctx context.Context, supplierID string) (*models.DueDiligence, error) {
				return d, nil
			},
		},
		Log: testLogger(),
	}

	got, expired, err := s.DueDiligenceStatus(context.Background(), "sup-1", now)
	if err != nil {
		t.Fatalf("DueDiligenceStatus: %v", err)
	}
	if got.ID != "dd-1" || !expired {
		t.Fatalf("status = %+v expired = %v, esperava vencida", got, expired)
	}
}
