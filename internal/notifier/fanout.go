package notifier

import (
	"context"
	"log/slog"
	"time"

	"supplierportal/internal/models"
)

// Notification kinds carried on the queue.
const (
	KindTenderPublished = "tenderPublished"
	KindTenderAwarded   = "tenderAwarded"
	KindTenderCanceled  = "tenderCanceled"
	KindRegretLetter    = "regretLetter"
	KindTenderMessage   = "tenderMessage"
)

type CompanyStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.Company, error)
	Registered(ctx context.Context) ([]models.Company, error)
}

type BlockedStore interface {
	ActiveIDs(ctx context.Context, instant time.Time) (map[string]bool, error)
}

// Fanout computes recipient sets and dispatches one notification per
// recipient. A single recipient failing never aborts the batch; the failure
// is logged and the loop moves on.
type Fanout struct {
	Companies CompanyStore
	Blocked   BlockedStore
	Notifier  Notifier
	Cfg       *models.PortalConfig
	Log       *slog.Logger
}

// SendToSuppliers envia para os convidados do tender (ou todos os
// fornecedores registrados se isToAll), menos bloqueados, menos quem não tem
// e-mail de contato. Devolve os ids efetivamente despachados.
func (f *Fanout) SendToSuppliers(ctx context.Context, t *models.Tender, kind, subject, content string, now time.Time) ([]string, error) {
	var (
		companies []models.Company
		err       error
	)
	if t.IsToAll {
		companies, err = f.Companies.Registered(ctx)
	} else {
		companies, err = f.Companies.GetByIDs(ctx, t.SupplierIDs)
	}
	if err != nil {
		return nil, err
	}
	return f.dispatch(ctx, companies, t, kind, subject, content, now)
}

// SendToIDs envia para um subconjunto explícito (carta de não-premiação).
func (f *Fanout) SendToIDs(ctx context.Context, ids []string, t *models.Tender, kind, subject, content string, now time.Time) ([]string, error) {
	companies, err := f.Companies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return f.dispatch(ctx, companies, t, kind, subject, content, now)
}

func (f *Fanout) dispatch(ctx context.Context, companies []models.Company, t *models.Tender, kind, subject, content string, now time.Time) ([]string, error) {
	blocked, err := f.Blocked.ActiveIDs(ctx, now)
	if err != nil {
		return nil, err
	}

	sent := []string{}
	for i := range companies {
		c := &companies[i]
		if blocked[c.ID] {
			f.log().Info("fanout_skip_blocked", "company_id", c.ID, "tender_id", t.ID)
			continue
		}
		email := c.ContactEmail()
		if email == "" {
			f.log().Warn("fanout_skip_no_email", "company_id", c.ID, "tender_id", t.ID)
			continue
		}

		n := Notification{
			Kind:        kind,
			TenderID:    t.ID,
			CompanyID:   c.ID,
			Email:       email,
			Subject:     subject,
			Content:     content,
			Attachments: t.Attachments,
		}
		if f.Cfg != nil {
			n.SenderName = f.Cfg.SenderName
			n.PortalURL = f.Cfg.PortalURL
		}

		// falha de um destinatário não derruba o lote
		if err := f.Notifier.Notify(ctx, n); err != nil {
			f.log().Error("fanout_notify_error", "company_id", c.ID, "tender_id", t.ID, "err", err)
			continue
		}
		sent = append(sent, c.ID)
	}
	return sent, nil
}

func (f *Fanout) log() *slog.Logger {
	if f.Log != nil {
		return f.Log
	}
	return slog.Default()
}
