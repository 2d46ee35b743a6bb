//go:build integration
// +build integration

package repository

/*
	Para Rodar: go test -tags=integration -v ./internal/repository -count=1

	obs: precisa de Docker local (testcontainers sobe um Mongo real)
*/

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"supplierportal/internal/db"
	"supplierportal/internal/models"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	mongoC, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { _ = mongoC.Terminate(ctx) })

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}

	client, err := db.NewMongoClient(uri)
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	return client.Database("testdb")
}

// Exercita: EnsureIndexes -> Create -> GetByID -> Save -> nome duplicado
func TestCompanyRepository_Integration_CreateGetSaveDuplicateName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewCompanyRepository(startMongo(t))

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	// 1) Create
	c := models.Company{
		ID: uuid.NewString(),
		BasicInfo: bson.M{
			"enName": "Altai Mining Supplies LLC",
			"email":  "contact@altaimining.mn",
		},
		ProductsInfo: []string{"a01001", "a01002"},
	}
	id, err := repo.Create(ctx, &c)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("create: id vazio")
	}

	// 2) GetByID
	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || got.Name() != "Altai Mining Supplies LLC" {
		t.Fatalf("get mismatch: %#v", got)
	}
	if got.CreatedDate.IsZero() {
		t.Fatalf("create não carimbou createdDate")
	}

	// 3) Save (documento inteiro)
	got.ContactInfo = bson.M{"email": "procurement@altaimining.mn", "phone": "976-7011-0000"}
	got.IsSentRegistrationInfo = true
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	got2, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if got2.ContactEmail() != "procurement@altaimining.mn" || !got2.IsSentRegistrationInfo {
		t.Fatalf("after save mismatch: %#v", got2)
	}
	if !got2.ModifiedDate.After(got2.CreatedDate) {
		t.Fatalf("save não atualizou modifiedDate: %v / %v", got2.ModifiedDate, got2.CreatedDate)
	}

	// 4) índice único de enName barra a duplicata
	dup := models.Company{
		ID:        uuid.NewString(),
		BasicInfo: bson.M{"enName": "Altai Mining Supplies LLC"},
	}
	if _, err := repo.Create(ctx, &dup); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// 5) id desconhecido -> ErrNotFound
	if _, err := repo.GetByID(ctx, "nao-existe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// 6) Registered só devolve quem completou o cadastro
	regs, err := repo.Registered(ctx)
	if err != nil {
		t.Fatalf("registered: %v", err)
	}
	if len(regs) != 1 || regs[0].ID != id {
		t.Fatalf("registered mismatch: %#v", regs)
	}
}

// O índice único (tenderId, supplierId) é o que garante no máximo uma
// resposta por fornecedor, mesmo com dois inserts concorrentes.
func TestTenderResponseRepository_Integration_UniquePair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTenderResponseRepository(startMongo(t))

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	first := models.TenderResponse{
		ID:             uuid.NewString(),
		TenderID:       "tender-1",
		SupplierID:     "sup-1",
		RespondedFiles: []string{"https://files.example.com/quote.pdf"},
	}
	if err := repo.Insert(ctx, &first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// mesmo par -> duplicata
	second := models.TenderResponse{
		ID:         uuid.NewString(),
		TenderID:   "tender-1",
		SupplierID: "sup-1",
	}
	if err := repo.Insert(ctx, &second); !errors.Is(err, ErrDuplicateResponse) {
		t.Fatalf("expected ErrDuplicateResponse, got %v", err)
	}

	// outro fornecedor passa
	third := models.TenderResponse{
		ID:         uuid.NewString(),
		TenderID:   "tender-1",
		SupplierID: "sup-2",
	}
	if err := repo.Insert(ctx, &third); err != nil {
		t.Fatalf("insert other supplier: %v", err)
	}

	got, err := repo.GetByTenderAndSupplier(ctx, "tender-1", "sup-1")
	if err != nil {
		t.Fatalf("get by pair: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("pair lookup mismatch: %#v", got)
	}

	list, err := repo.ListByTender(ctx, "tender-1")
	if err != nil {
		t.Fatalf("list by tender: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(list))
	}

	// autorização de download: a URL aparece nos arquivos do sup-1, não do sup-2
	ok, err := repo.HasFileForSupplier(ctx, "https://files.example.com/quote.pdf", "sup-1")
	if err != nil || !ok {
		t.Fatalf("expected file hit for sup-1, ok=%v err=%v", ok, err)
	}
	ok, err = repo.HasFileForSupplier(ctx, "https://files.example.com/quote.pdf", "sup-2")
	if err != nil || ok {
		t.Fatalf("expected no file hit for sup-2, ok=%v err=%v", ok, err)
	}
}

// As transições por tempo usam UpdateMany condicional: a segunda passada
// (outra réplica do agendador) não encontra nada para mudar.
func TestTenderRepository_Integration_SchedulerTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTenderRepository(startMongo(t))

	now := time.Now().UTC()
	due := models.Tender{
		ID:          uuid.NewString(),
		Kind:        models.TenderRFQ,
		Status:      models.TenderDraft,
		Number:      "RFQ-2026-001",
		Name:        "Spare parts Q3",
		PublishDate: now.Add(-time.Hour),
		CloseDate:   now.Add(-time.Minute),
		SupplierIDs: []string{"sup-1"},
	}
	future := models.Tender{
		ID:          uuid.NewString(),
		Kind:        models.TenderEOI,
		Status:      models.TenderDraft,
		Number:      "EOI-2026-002",
		Name:        "Catering services",
		PublishDate: now.Add(time.Hour),
		CloseDate:   now.Add(48 * time.Hour),
		IsToAll:     true,
	}
	for _, tdr := range []*models.Tender{&due, &future} {
		if _, err := repo.Create(ctx, tdr); err != nil {
			t.Fatalf("create tender: %v", err)
		}
	}

	// 1) só o rascunho vencido aparece
	drafts, err := repo.DueDrafts(ctx, now)
	if err != nil {
		t.Fatalf("due drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != due.ID {
		t.Fatalf("due drafts mismatch: %#v", drafts)
	}

	// 2) abre e confere que só a primeira invocação vence a corrida
	ok, err := repo.OpenDraft(ctx, due.ID, now)
	if err != nil || !ok {
		t.Fatalf("open draft: ok=%v err=%v", ok, err)
	}
	ok, err = repo.OpenDraft(ctx, due.ID, now)
	if err != nil || ok {
		t.Fatalf("open draft (2nd pass): ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(ctx, due.ID)
	if err != nil || got.Status != models.TenderOpen {
		t.Fatalf("expected open, got %#v err=%v", got, err)
	}

	// 3) closeDate já passou -> fecha; segunda passada não mexe em nada
	n, err := repo.CloseDue(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("close due: n=%d err=%v", n, err)
	}
	n, err = repo.CloseDue(ctx, now)
	if err != nil || n != 0 {
		t.Fatalf("close due (2nd pass): n=%d err=%v", n, err)
	}

	got, err = repo.GetByID(ctx, due.ID)
	if err != nil || got.Status != models.TenderClosed {
		t.Fatalf("expected closed, got %#v err=%v", got, err)
	}

	// o rascunho futuro não foi tocado
	got, err = repo.GetByID(ctx, future.ID)
	if err != nil || got.Status != models.TenderDraft {
		t.Fatalf("future draft touched: %#v err=%v", got, err)
	}
}
