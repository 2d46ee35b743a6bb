package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"supplierportal/internal/audit"
	"supplierportal/internal/company"
	"supplierportal/internal/feedback"
	"supplierportal/internal/models"
	"supplierportal/internal/tender"
)

// Mocks de serviço para os testes de handler. Campos de função: cada teste
// preenche só o que usa; método não preenchido estoura, apontando o vazamento.

type companyServiceMock struct {
	CreateFunc                        func(ctx context.Context, in company.CreateInput, createdUserID string) (*models.Company, error)
	GetFunc                           func(ctx context.Context, id string) (*models.Company, error)
	ListFunc                          func(ctx context.Context, limit, skip int64) ([]models.Company, error)
	UpdateSectionFunc                 func(ctx context.Context, id, name string, doc bson.M) (*models.Company, error)
	SendRegistrationInfoFunc          func(ctx context.Context, id string) (*models.Company, error)
	SendPrequalificationInfoFunc      func(ctx context.Context, id string) (*models.Company, error)
	EnablePrequalificationEditingFunc func(ctx context.Context, id string) (*models.Company, error)
	PrequalifyFunc                    func(ctx context.Context, id string, qualified bool, verdicts *models.Qualification) (*models.Company, error)
	AddDifotScoresFunc                func(ctx context.Context, scores []company.DifotInput) error
	ValidateProductsInfoFunc          func(ctx context.Context, id string, checkedItems []string) (*models.Company, error)
	BlockFunc                         func(ctx context.Context, b *models.BlockedCompany, createdUserID string) error
	UnblockFunc                       func(ctx context.Context, supplierID string) error
	CreateDueDiligenceFunc            func(ctx context.Context, d *models.DueDiligence, createdUserID string) (*models.DueDiligence, error)
	UpdateDueDiligenceFunc            func(ctx context.Context, id string, file, risk string, date, expireDate time.Time) (*models.DueDiligence, error)
	EnableDueDiligenceEditingFunc     func(ctx context.Context, id string) (*models.DueDiligence, error)
	DueDiligenceStatusFunc            func(ctx context.Context, supplierID string, now time.Time) (*models.DueDiligence, bool, error)
}

func (m *companyServiceMock) Create(ctx context.Context, in company.CreateInput, createdUserID string) (*models.Company, error) {
	return m.CreateFunc(ctx, in, createdUserID)
}
func (m *companyServiceMock) Get(ctx context.Context, id string) (*models.Company, error) {
	return m.GetFunc(ctx, id)
}
func (m *companyServiceMock) List(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	return m.ListFunc(ctx, limit, skip)
}
func (m *companyServiceMock) UpdateSection(ctx context.Context, id, name string, doc bson.M) (*models.Company, error) {
	return m.UpdateSectionFunc(ctx, id, name, doc)
}
func (m *companyServiceMock) SendRegistrationInfo(ctx context.Context, id string) (*models.Company, error) {
	return m.SendRegistrationInfoFunc(ctx, id)
}
func (m *companyServiceMock) SendPrequalificationInfo(ctx context.Context, id string) (*models.Company, error) {
	return m.SendPrequalificationInfoFunc(ctx, id)
}
func (m *companyServiceMock) EnablePrequalificationEditing(ctx context.Context, id string) (*models.Company, error) {
	return m.EnablePrequalificationEditingFunc(ctx, id)
}
func (m *companyServiceMock) Prequalify(ctx context.Context, id string, qualified bool, verdicts *models.Qualification) (*models.Company, error) {
	return m.PrequalifyFunc(ctx, id, qualified, verdicts)
}
func (m *companyServiceMock) AddDifotScores(ctx context.Context, scores []company.DifotInput) error {
	return m.AddDifotScoresFunc(ctx, scores)
}
func (m *companyServiceMock) ValidateProductsInfo(ctx context.Context, id string, checkedItems []string) (*models.Company, error) {
	return m.ValidateProductsInfoFunc(ctx, id, checkedItems)
}
func (m *companyServiceMock) Block(ctx context.Context, b *models.BlockedCompany, createdUserID string) error {
	return m.BlockFunc(ctx, b, createdUserID)
}
func (m *companyServiceMock) Unblock(ctx context.Context, supplierID string) error {
	return m.UnblockFunc(ctx, supplierID)
}
func (m *companyServiceMock) CreateDueDiligence(ctx context.Context, d *models.DueDiligence, createdUserID string) (*models.DueDiligence, error) {
	return m.CreateDueDiligenceFunc(ctx, d, createdUserID)
}
func (m *companyServiceMock) UpdateDueDiligence(ctx context.Context, id string, file, risk string, date, expireDate time.Time) (*models.DueDiligence, error) {
	return m.UpdateDueDiligenceFunc(ctx, id, file, risk, date, expireDate)
}
func (m *companyServiceMock) EnableDueDiligenceEditing(ctx context.Context, id string) (*models.DueDiligence, error) {
	return m.EnableDueDiligenceEditingFunc(ctx, id)
}
func (m *companyServiceMock) DueDiligenceStatus(ctx context.Context, supplierID string, now time.Time) (*models.DueDiligence, bool, error) {
	return m.DueDiligenceStatusFunc(ctx, supplierID, now)
}

type tenderServiceMock struct {
	CreateFunc           func(ctx context.Context, in tender.CreateInput, createdUserID string, now time.Time) (*models.Tender, error)
	GetFunc              func(ctx context.Context, id string) (*models.Tender, error)
	ListFunc             func(ctx context.Context, limit, skip int64) ([]models.Tender, error)
	EditFunc             func(ctx context.Context, id string, in tender.CreateInput) (*models.Tender, error)
	RemoveFunc           func(ctx context.Context, id string) error
	CancelFunc           func(ctx context.Context, id string, now time.Time) (*models.Tender, error)
	AwardFunc            func(ctx context.Context, id, supplierID string, now time.Time) (*models.Tender, error)
	SendRegretLetterFunc func(ctx context.Context, id, subject, content string, now time.Time) ([]string, error)
	CreateResponseFunc   func(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error)
	UpdateResponseFunc   func(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error)
	SendResponseFunc     func(ctx context.Context, tenderID string, actor models.Actor, now time.Time) (*models.TenderResponse, error)
	ListResponsesFunc    func(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderResponse, error)
	GetOwnResponseFunc   func(ctx context.Context, tenderID string, actor models.Actor) (*models.TenderResponse, error)
	SendMessageFunc      func(ctx context.Context, tenderID string, actor models.Actor, in tender.MessageInput, now time.Time) (*models.TenderMessage, error)
	ListMessagesFunc     func(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderMessage, error)
}

func (m *tenderServiceMock) Create(ctx context.Context, in tender.CreateInput, createdUserID string, now time.Time) (*models.Tender, error) {
	return m.CreateFunc(ctx, in, createdUserID, now)
}
func (m *tenderServiceMock) Get(ctx context.Context, id string) (*models.Tender, error) {
	return m.GetFunc(ctx, id)
}
func (m *tenderServiceMock) List(ctx context.Context, limit, skip int64) ([]models.Tender, error) {
	return m.ListFunc(ctx, limit, skip)
}
func (m *tenderServiceMock) Edit(ctx context.Context, id string, in tender.CreateInput) (*models.Tender, error) {
	return m.EditFunc(ctx, id, in)
}
func (m *tenderServiceMock) Remove(ctx context.Context, id string) error {
	return m.RemoveFunc(ctx, id)
}
func (m *tenderServiceMock) Cancel(ctx context.Context, id string, now time.Time) (*models.Tender, error) {
	return m.CancelFunc(ctx, id, now)
}
func (m *tenderServiceMock) Award(ctx context.Context, id, supplierID string, now time.Time) (*models.Tender, error) {
	return m.AwardFunc(ctx, id, supplierID, now)
}
func (m *tenderServiceMock) SendRegretLetter(ctx context.Context, id, subject, content string, now time.Time) ([]string, error) {
	return m.SendRegretLetterFunc(ctx, id, subject, content, now)
}
func (m *tenderServiceMock) CreateResponse(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error) {
	return m.CreateResponseFunc(ctx, tenderID, actor, in)
}
func (m *tenderServiceMock) UpdateResponse(ctx context.Context, tenderID string, actor models.Actor, in tender.ResponseInput) (*models.TenderResponse, error) {
	return m.UpdateResponseFunc(ctx, tenderID, actor, in)
}
func (m *tenderServiceMock) SendResponse(ctx context.Context, tenderID string, actor models.Actor, now time.Time) (*models.TenderResponse, error) {
	return m.SendResponseFunc(ctx, tenderID, actor, now)
}
func (m *tenderServiceMock) ListResponses(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderResponse, error) {
	return m.ListResponsesFunc(ctx, tenderID, actor)
}
func (m *tenderServiceMock) GetOwnResponse(ctx context.Context, tenderID string, actor models.Actor) (*models.TenderResponse, error) {
	return m.GetOwnResponseFunc(ctx, tenderID, actor)
}
func (m *tenderServiceMock) SendMessage(ctx context.Context, tenderID string, actor models.Actor, in tender.MessageInput, now time.Time) (*models.TenderMessage, error) {
	return m.SendMessageFunc(ctx, tenderID, actor, in, now)
}
func (m *tenderServiceMock) ListMessages(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderMessage, error) {
	return m.ListMessagesFunc(ctx, tenderID, actor)
}

type auditServiceMock struct {
	CreateFunc                     func(ctx context.Context, in audit.CreateInput, createdUserID string) (*models.Audit, error)
	GetFunc                        func(ctx context.Context, id string) (*models.Audit, error)
	SaveSectionFunc                func(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error)
	SendResponseFunc               func(ctx context.Context, auditID string, actor models.Actor) (*models.AuditResponse, error)
	EnableResponseEditingFunc      func(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)
	QualifyFunc                    func(ctx context.Context, auditID, supplierID string, qualified bool) (*models.AuditResponse, error)
	GetResponseFunc                func(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error)
	CreatePhysicalAuditFunc        func(ctx context.Context, in audit.PhysicalAuditInput, createdUserID string) (*models.PhysicalAudit, error)
	UpdatePhysicalAuditFunc        func(ctx context.Context, id string, in audit.PhysicalAuditInput) (*models.PhysicalAudit, error)
	EnablePhysicalAuditEditingFunc func(ctx context.Context, id string) (*models.PhysicalAudit, error)
	RemovePhysicalAuditFunc        func(ctx context.Context, id string) error
}

func (m *auditServiceMock) Create(ctx context.Context, in audit.CreateInput, createdUserID string) (*models.Audit, error) {
	return m.CreateFunc(ctx, in, createdUserID)
}
func (m *auditServiceMock) Get(ctx context.Context, id string) (*models.Audit, error) {
	return m.GetFunc(ctx, id)
}
func (m *auditServiceMock) SaveSection(ctx context.Context, auditID, supplierID, name string, doc bson.M, actor models.Actor, now time.Time) (*models.AuditResponse, error) {
	return m.SaveSectionFunc(ctx, auditID, supplierID, name, doc, actor, now)
}
func (m *auditServiceMock) SendResponse(ctx context.Context, auditID string, actor models.Actor) (*models.AuditResponse, error) {
	return m.SendResponseFunc(ctx, auditID, actor)
}
func (m *auditServiceMock) EnableResponseEditing(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	return m.EnableResponseEditingFunc(ctx, auditID, supplierID)
}
func (m *auditServiceMock) Qualify(ctx context.Context, auditID, supplierID string, qualified bool) (*models.AuditResponse, error) {
	return m.QualifyFunc(ctx, auditID, supplierID, qualified)
}
func (m *auditServiceMock) GetResponse(ctx context.Context, auditID, supplierID string) (*models.AuditResponse, error) {
	return m.GetResponseFunc(ctx, auditID, supplierID)
}
func (m *auditServiceMock) CreatePhysicalAudit(ctx context.Context, in audit.PhysicalAuditInput, createdUserID string) (*models.PhysicalAudit, error) {
	return m.CreatePhysicalAuditFunc(ctx, in, createdUserID)
}
func (m *auditServiceMock) UpdatePhysicalAudit(ctx context.Context, id string, in audit.PhysicalAuditInput) (*models.PhysicalAudit, error) {
	return m.UpdatePhysicalAuditFunc(ctx, id, in)
}
func (m *auditServiceMock) EnablePhysicalAuditEditing(ctx context.Context, id string) (*models.PhysicalAudit, error) {
	return m.EnablePhysicalAuditEditingFunc(ctx, id)
}
func (m *auditServiceMock) RemovePhysicalAudit(ctx context.Context, id string) error {
	return m.RemovePhysicalAuditFunc(ctx, id)
}

type feedbackServiceMock struct {
	CreateFunc         func(ctx context.Context, in feedback.CreateInput, createdUserID string) (*models.Feedback, error)
	GetFunc            func(ctx context.Context, id string) (*models.Feedback, error)
	CreateResponseFunc func(ctx context.Context, feedbackID string, actor models.Actor, doc bson.M, now time.Time) (*models.FeedbackResponse, error)
}

func (m *feedbackServiceMock) Create(ctx context.Context, in feedback.CreateInput, createdUserID string) (*models.Feedback, error) {
	return m.CreateFunc(ctx, in, createdUserID)
}
func (m *feedbackServiceMock) Get(ctx context.Context, id string) (*models.Feedback, error) {
	return m.GetFunc(ctx, id)
}
func (m *feedbackServiceMock) CreateResponse(ctx context.Context, feedbackID string, actor models.Actor, doc bson.M, now time.Time) (*models.FeedbackResponse, error) {
	return m.CreateResponseFunc(ctx, feedbackID, actor, doc, now)
}

type fileAuthorizerMock struct {
	IsAuthorizedToDownloadFunc func(ctx context.Context, fileURL string, actor models.Actor) bool
}

func (m *fileAuthorizerMock) IsAuthorizedToDownload(ctx context.Context, fileURL string, actor models.Actor) bool {
	return m.IsAuthorizedToDownloadFunc(ctx, fileURL, actor)
}
