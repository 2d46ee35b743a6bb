package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/audit"
	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/tender"
)

func asSupplier(r *http.Request, companyID string) *http.Request {
	r.Header.Set(headerUserID, "u-1")
	r.Header.Set(headerRole, models.RoleSupplier)
	r.Header.Set(headerCompanyID, companyID)
	return r
}

func asBuyer(r *http.Request) *http.Request {
	r.Header.Set(headerUserID, "u-9")
	r.Header.Set(headerRole, models.RoleBuyer)
	return r
}

func TestMissingIdentityHeaders(t *testing.T) {
	h := NewCompanyHandler(&companyServiceMock{})
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()

	h.Companies(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperava 401", rec.Code)
	}
}

func TestSupplierCannotTouchOtherCompany(t *testing.T) {
	h := NewCompanyHandler(&companyServiceMock{})
	req := asSupplier(httptest.NewRequest(http.MethodGet, "/api/companies/sup-2", nil), "sup-1")
	rec := httptest.NewRecorder()

	h.CompanyByPath(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Permission denied" {
		t.Fatalf("mensagem = %q", body["error"])
	}
}

func TestUpdateFrozenSectionReturns403(t *testing.T) {
	svc := &companyServiceMock{
		UpdateSectionFunc: func(ctx context.Context, id, name string, doc bson.M) (*models.Company, error) {
			return nil, eligibility.ErrChangesDisabled
		},
	}
	h := NewCompanyHandler(svc)

	req := asSupplier(httptest.NewRequest(http.MethodPut, "/api/companies/sup-1/sections/financialInfo",
		strings.NewReader(`{"currency":"USD"}`)), "sup-1")
	rec := httptest.NewRecorder()

	h.CompanyByPath(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}

	var body map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Changes disabled" {
		t.Fatalf("mensagem = %q", body["error"])
	}
}

func TestCreateTenderResponseGateMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
		code int
	}{
		{"nao_participa", eligibility.ErrNotParticipated, "Not participated", http.StatusForbidden},
		{"sem_registro", eligibility.ErrRegistrationIncomplete, "Please complete registration stage", http.StatusForbidden},
		{"sem_prequalificacao", eligibility.ErrPrequalificationIncomplete, "Please complete prequalification stage", http.StatusForbidden},
		{"indisponivel", eligibility.ErrTenderNotAvailable, "This tender is not available", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &tenderServiceMock{
				CreateResponseFunc: func(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error) {
					return nil, tc.err
				},
			}
			h := NewTenderHandler(svc)

			req := asSupplier(httptest.NewRequest(http.MethodPost, "/api/tenders/t-1/responses",
				strings.NewReader(`{}`)), "sup-1")
			rec := httptest.NewRecorder()

			h.TenderByPath(rec, req)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, esperava %d", rec.Code, tc.code)
			}
			var body map[string]string
			_ = json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] != tc.want {
				t.Fatalf("mensagem = %q, esperava %q", body["error"], tc.want)
			}
		})
	}
}

func TestSupplierCannotAward(t *testing.T) {
	h := NewTenderHandler(&tenderServiceMock{})
	req := asSupplier(httptest.NewRequest(http.MethodPost, "/api/tenders/t-1/award",
		strings.NewReader(`{"supplierId":"sup-1"}`)), "sup-1")
	rec := httptest.NewRecorder()

	h.TenderByPath(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}
}

func TestSendResponseUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	var got time.Time
	svc := &tenderServiceMock{
		SendResponseFunc: func(ctx context.Context, tenderID string, actor models.Actor, now time.Time) (*models.TenderResponse, error) {
			got = now
			return &models.TenderResponse{ID: "r-1", Status: models.ResponseOnTime, IsSent: true}, nil
		},
	}
	h := NewTenderHandler(svc)
	h.Now = func() time.Time { return fixed }

	req := asSupplier(httptest.NewRequest(http.MethodPost, "/api/tenders/t-1/responses/send", nil), "sup-1")
	rec := httptest.NewRecorder()

	h.TenderByPath(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rec.Code, rec.Body.String())
	}
	if !got.Equal(fixed) {
		t.Fatalf("now = %v, esperava %v", got, fixed)
	}
}

func TestRegretLetterReturnsRecipients(t *testing.T) {
	svc := &tenderServiceMock{
		SendRegretLetterFunc: func(ctx context.Context, id, subject, content string, now time.Time) ([]string, error) {
			return []string{"sup-1", "sup-3"}, nil
		},
	}
	h := NewTenderHandler(svc)

	req := asBuyer(httptest.NewRequest(http.MethodPost, "/api/tenders/t-1/regret-letter",
		strings.NewReader(`{"subject":"Result","content":"Thanks"}`)))
	rec := httptest.NewRecorder()

	h.TenderByPath(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		SentSupplierIDs []string `json:"sentSupplierIds"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.SentSupplierIDs) != 2 {
		t.Fatalf("sentSupplierIds = %v", body.SentSupplierIDs)
	}
}

func TestFileAuthorizeVerdict(t *testing.T) {
	auth := &fileAuthorizerMock{
		IsAuthorizedToDownloadFunc: func(ctx context.Context, fileURL string, actor models.Actor) bool {
			return fileURL == "/files/mine.pdf"
		},
	}
	h := NewFileHandler(auth)

	req := asSupplier(httptest.NewRequest(http.MethodGet, "/api/files/authorize?url=/files/mine.pdf", nil), "sup-1")
	rec := httptest.NewRecorder()
	h.Authorize(rec, req)

	var body map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body["isAuthorized"] {
		t.Fatal("devia autorizar o arquivo do próprio fornecedor")
	}

	req = asSupplier(httptest.NewRequest(http.MethodGet, "/api/files/authorize?url=/files/other.pdf", nil), "sup-1")
	rec = httptest.NewRecorder()
	h.Authorize(rec, req)

	body = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["isAuthorized"] {
		t.Fatal("não devia autorizar arquivo alheio")
	}
}

func TestFileAuthorizeRequiresURL(t *testing.T) {
	h := NewFileHandler(&fileAuthorizerMock{})
	req := asBuyer(httptest.NewRequest(http.MethodGet, "/api/files/authorize", nil))
	rec := httptest.NewRecorder()

	h.Authorize(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperava 400", rec.Code)
	}
}

func TestDifotScoresRequiresBuyer(t *testing.T) {
	h := NewCompanyHandler(&companyServiceMock{})
	req := asSupplier(httptest.NewRequest(http.MethodPost, "/api/difot-scores",
		strings.NewReader(`{"scores":[]}`)), "sup-1")
	rec := httptest.NewRecorder()

	h.DifotScores(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}
}

func TestMissingResponseReturns404(t *testing.T) {
	svc := &auditServiceMock{
		SaveSectionFunc: func(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error) {
			return nil, eligibility.ErrResponseNotFound
		},
	}
	h := NewAuditHandler(svc)

	req := asBuyer(httptest.NewRequest(http.MethodPut, "/api/audits/a-1/responses/sup-1/sections/coreHseqInfo",
		strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()

	h.AuditByPath(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperava 404", rec.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Response not found" {
		t.Fatalf("mensagem = %q", body["error"])
	}
}

func TestDueDiligencesRequireBuyer(t *testing.T) {
	h := NewCompanyHandler(&companyServiceMock{})
	req := asSupplier(httptest.NewRequest(http.MethodPost, "/api/due-diligences",
		strings.NewReader(`{"supplierId":"sup-1"}`)), "sup-1")
	rec := httptest.NewRecorder()

	h.DueDiligences(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}
}

func TestDueDiligenceStatusUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	svc := &companyServiceMock{
		DueDiligenceStatusFunc: func(ctx context.Context, supplierID string, now time.Time) (*models.DueDiligence, bool, error) {
			if supplierID != "sup-1" || !now.Equal(fixed) {
				t.Fatalf("chamada errada: %s %v", supplierID, now)
			}
			return &models.DueDiligence{ID: "dd-1", SupplierID: supplierID}, true, nil
		},
	}
	h := NewCompanyHandler(svc)
	h.Now = func() time.Time { return fixed }

	req := asBuyer(httptest.NewRequest(http.MethodGet, "/api/due-diligences/sup-1/status", nil))
	rec := httptest.NewRecorder()

	h.DueDiligences(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperava 200", rec.Code)
	}
	var body struct {
		IsExpired bool `json:"isExpired"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if !body.IsExpired {
		t.Fatal("isExpired devia vir true")
	}
}

func TestUnknownSectionReturns400(t *testing.T) {
	svc := &auditServiceMock{
		SaveSectionFunc: func(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error) {
			return nil, audit.ErrUnknownSection
		},
	}
	h := NewAuditHandler(svc)

	req := asBuyer(httptest.NewRequest(http.MethodPut, "/api/audits/a-1/responses/sup-1/sections/naoExiste",
		strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()

	h.AuditByPath(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperava 400", rec.Code)
	}
}
