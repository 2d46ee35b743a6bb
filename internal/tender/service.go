// Package tender implementa o ciclo de vida de tenders (rfq/eoi): criação,
// publicação por agendamento, fechamento, premiação, carta de não-premiação e
// mensagens ligadas ao tender.
package tender

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"supplierportal/internal/models"
	"supplierportal/internal/notifier"
)

type TenderStore interface {
	Create(ctx context.Context, t *models.Tender) (string, error)
	GetByID(ctx context.Context, id string) (*models.Tender, error)
	GetAll(ctx context.Context, limit, skip int64) ([]models.Tender, error)
	Save(ctx context.Context, t *models.Tender) error
	Delete(ctx context.Context, id string) error
	DueDrafts(ctx context.Context, now time.Time) ([]models.Tender, error)
	OpenDraft(ctx context.Context, id string, now time.Time) (bool, error)
	CloseDue(ctx context.Context, now time.Time) (int64, error)
}

type ResponseStore interface {
	Insert(ctx context.Context, resp *models.TenderResponse) error
	GetByTenderAndSupplier(ctx context.Context, tenderID, supplierID string) (*models.TenderResponse, error)
	ListByTender(ctx context.Context, tenderID string) ([]models.TenderResponse, error)
	Save(ctx context.Context, resp *models.TenderResponse) error
}

type CompanyStore interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

type MessageStore interface {
	Insert(ctx context.Context, m *models.TenderMessage) error
	ListByTender(ctx context.Context, tenderID string) ([]models.TenderMessage, error)
}

// Sender é o fan-out de notificações; a implementação real publica no broker.
type Sender interface {
	SendToSuppliers(ctx context.Context, t *models.Tender, kind, subject, content string, now time.Time) ([]string, error)
	SendToIDs(ctx context.Context, ids []string, t *models.Tender, kind, subject, content string, now time.Time) ([]string, error)
}

type Service struct {
	Tenders   TenderStore
	Responses ResponseStore
	Companies CompanyStore
	Messages  MessageStore
	Sender    Sender
	Log       *slog.Logger

	validate *validator.Validate
}

func NewService(tenders TenderStore, responses ResponseStore, companies CompanyStore, messages MessageStore, sender Sender, log *slog.Logger) *Service {
	return &Service{
		Tenders:   tenders,
		Responses: responses,
		Companies: companies,
		Messages:  messages,
		Sender:    sender,
		Log:       log,
		validate:  validator.New(),
	}
}

type CreateInput struct {
	Kind    models.TenderKind `json:"type" validate:"required,oneof=rfq eoi"`
	Number  string            `json:"number" validate:"required"`
	Name    string            `json:"name" validate:"required"`
	Content string            `json:"content,omitempty"`

	PublishDate time.Time `json:"publishDate" validate:"required"`
	CloseDate   time.Time `json:"closeDate" validate:"required"`

	SupplierIDs []string `json:"supplierIds,omitempty"`
	IsToAll     bool     `json:"isToAll"`

	RequestedProducts  []string `json:"requestedProducts,omitempty"`
	RequestedDocuments []string `json:"requestedDocuments,omitempty"`
	Attachments        []string `json:"attachments,omitempty"`
}

// Create grava o tender; se a data de publicação já passou ele nasce aberto e
// os convidados são notificados na hora, senão nasce rascunho e o agendador
// cuida do resto.
func (s *Service) Create(ctx context.Context, in CreateInput, createdUserID string, now time.Time) (*models.Tender, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.CloseDate.After(in.PublishDate) {
		return nil, errors.New("closeDate must come after publishDate")
	}

	t := &models.Tender{
		ID:                 uuid.NewString(),
		Kind:               in.Kind,
		Status:             models.TenderDraft,
		Number:             in.Number,
		Name:               in.Name,
		Content:            in.Content,
		PublishDate:        in.PublishDate,
		CloseDate:          in.CloseDate,
		SupplierIDs:        in.SupplierIDs,
		IsToAll:            in.IsToAll,
		RequestedProducts:  in.RequestedProducts,
		RequestedDocuments: in.RequestedDocuments,
		Attachments:        in.Attachments,
		CreatedUserID:      createdUserID,
	}
	if !in.PublishDate.After(now) {
		t.Status = models.TenderOpen
	}

	if _, err := s.Tenders.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info("tender_created", "tender_id", t.ID, "status", t.Status)

	if t.Status == models.TenderOpen {
		s.publishNotify(ctx, t, now)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Tender, error) {
	return s.Tenders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, skip int64) ([]models.Tender, error) {
	return s.Tenders.GetAll(ctx, limit, skip)
}

// Edit só é permitido enquanto rascunho; depois de publicado os termos são
// imutáveis.
func (s *Service) Edit(ctx context.Context, id string, in CreateInput) (*models.Tender, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	t, err := s.Tenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TenderDraft {
		return nil, errors.New("only draft tenders can be edited")
	}

	t.Kind = in.Kind
	t.Number = in.Number
	t.Name = in.Name
	t.Content = in.Content
	t.PublishDate = in.PublishDate
	t.CloseDate = in.CloseDate
	t.SupplierIDs = in.SupplierIDs
	t.IsToAll = in.IsToAll
	t.RequestedProducts = in.RequestedProducts
	t.RequestedDocuments = in.RequestedDocuments
	t.Attachments = in.Attachments

	if err := s.Tenders.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Remove apaga o tender de vez, em qualquer status; é exclusão, não
// cancelamento.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.Tenders.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Tenders.Delete(ctx, id)
}

// PublishDrafts abre todo rascunho vencido e dispara as notificações de
// publicação. O update condicional por tender decide quem venceu a corrida
// entre réplicas: só a invocação que efetivou a transição notifica. Devolve
// os ids abertos por esta invocação.
func (s *Service) PublishDrafts(ctx context.Context, now time.Time) ([]string, error) {
	due, err := s.Tenders.DueDrafts(ctx, now)
	if err != nil {
		return nil, err
	}

	opened := []string{}
	for i := range due {
		t := &due[i]
		ok, err := s.Tenders.OpenDraft(ctx, t.ID, now)
		if err != nil {
			return opened, err
		}
		if !ok {
			// outra réplica abriu primeiro e já notificou
			continue
		}
		t.Status = models.TenderOpen
		s.publishNotify(ctx, t, now)
		opened = append(opened, t.ID)
	}
	if len(opened) > 0 {
		s.Log.Info("tenders_published", "count", len(opened))
	}
	return opened, nil
}

// CloseOpens fecha todo tender aberto cujo closeDate já passou.
func (s *Service) CloseOpens(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.Tenders.CloseDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Log.Info("tenders_closed", "count", n)
	}
	return n, nil
}

// Cancel é terminal e manual; os convidados são avisados.
func (s *Service) Cancel(ctx context.Context, id string, now time.Time) (*models.Tender, error) {
	t, err := s.Tenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TenderDraft && t.Status != models.TenderOpen {
		return nil, errors.New("tender can no longer be canceled")
	}

	wasOpen := t.Status == models.TenderOpen
	t.Status = models.TenderCanceled
	if err := s.Tenders.Save(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info("tender_canceled", "tender_id", t.ID)

	if wasOpen {
		if _, err := s.Sender.SendToSuppliers(ctx, t, notifier.KindTenderCanceled, t.Name, t.Content, now); err != nil {
			s.Log.Error("tender_cancel_notify_error", "tender_id", t.ID, "err", err)
		}
	}
	return t, nil
}

// Award fecha a disputa em favor de um fornecedor. É ação explícita do
// comprador e vale a partir de qualquer status. A notificação do vencedor é
// melhor esforço; a premiação em si nunca é desfeita por falha de broker.
func (s *Service) Award(ctx context.Context, id, supplierID string, now time.Time) (*models.Tender, error) {
	t, err := s.Tenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Status = models.TenderAwarded
	t.WinnerID = supplierID
	if err := s.Tenders.Save(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info("tender_awarded", "tender_id", t.ID, "winner_id", supplierID)

	if _, err := s.Sender.SendToIDs(ctx, []string{supplierID}, t, notifier.KindTenderAwarded, t.Name, t.Content, now); err != nil {
		s.Log.Error("tender_award_notify_error", "tender_id", t.ID, "err", err)
	}
	return t, nil
}

// SendRegretLetter avisa todo respondente que não venceu. Pode ser reenviada;
// cada chamada recomputa o conjunto e devolve os ids notificados.
func (s *Service) SendRegretLetter(ctx context.Context, id, subject, content string, now time.Time) ([]string, error) {
	t, err := s.Tenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TenderAwarded {
		return nil, errors.New("tender has no award yet")
	}

	responses, err := s.Responses.ListByTender(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for i := range responses {
		if responses[i].SupplierID != t.WinnerID {
			ids = append(ids, responses[i].SupplierID)
		}
	}

	sent, err := s.Sender.SendToIDs(ctx, ids, t, notifier.KindRegretLetter, subject, content, now)
	if err != nil {
		return nil, err
	}

	t.SentRegretLetter = true
	if err := s.Tenders.Save(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info("regret_letter_sent", "tender_id", t.ID, "recipients", len(sent))
	return sent, nil
}

func (s *Service) publishNotify(ctx context.Context, t *models.Tender, now time.Time) {
	sent, err := s.Sender.SendToSuppliers(ctx, t, notifier.KindTenderPublished, t.Name, t.Content, now)
	if err != nil {
		s.Log.Error("tender_publish_notify_error", "tender_id", t.ID, "err", err)
		return
	}
	s.Log.Info("tender_publish_notified", "tender_id", t.ID, "recipients", len(sent))
}
