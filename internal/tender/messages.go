package tender

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"supplierportal/internal/eligibility"
	"supplierportal/internal/models"
	"supplierportal/internal/notifier"
)

type MessageInput struct {
	Subject              string   `json:"subject" validate:"required"`
	Body                 string   `json:"body" validate:"required"`
	Attachment           string   `json:"attachment,omitempty"`
	RecipientSupplierIDs []string `json:"recipientSupplierIds,omitempty"`
}

// SendMessage registra uma mensagem no tender. Comprador escolhe os
// destinatários (e eles são notificados via broker); fornecedor escreve para
// o comprador, sem fan-out.
func (s *Service) SendMessage(ctx context.Context, tenderID string, actor models.Actor, in MessageInput, now time.Time) (*models.TenderMessage, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	t, err := s.Tenders.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	m := &models.TenderMessage{
		ID:         uuid.NewString(),
		TenderID:   tenderID,
		Subject:    in.Subject,
		Body:       in.Body,
		Attachment: in.Attachment,
	}

	if actor.IsSupplier() {
		if !t.Participates(actor.CompanyID) {
			return nil, eligibility.ErrNotParticipated
		}
		m.SenderSupplierID = actor.CompanyID
	} else {
		if len(in.RecipientSupplierIDs) == 0 {
			return nil, errors.New("recipientSupplierIds is required")
		}
		m.SenderBuyerID = actor.UserID
		m.RecipientSupplierIDs = in.RecipientSupplierIDs
	}

	if err := s.Messages.Insert(ctx, m); err != nil {
		return nil, err
	}

	if !actor.IsSupplier() {
		if _, err := s.Sender.SendToIDs(ctx, m.RecipientSupplierIDs, t, notifier.KindTenderMessage, in.Subject, in.Body, now); err != nil {
			s.Log.Error("tender_message_notify_error", "tender_id", tenderID, "err", err)
		}
	}
	return m, nil
}

// ListMessages: comprador vê tudo; fornecedor só o que mandou ou recebeu.
func (s *Service) ListMessages(ctx context.Context, tenderID string, actor models.Actor) ([]models.TenderMessage, error) {
	all, err := s.Messages.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSupplier() {
		return all, nil
	}

	mine := []models.TenderMessage{}
	for i := range all {
		m := &all[i]
		if m.SenderSupplierID == actor.CompanyID {
			mine = append(mine, *m)
			continue
		}
		for _, id := range m.RecipientSupplierIDs {
			if id == actor.CompanyID {
				mine = append(mine, *m)
				break
			}
		}
	}
	return mine, nil
}
