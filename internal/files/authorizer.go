package files

import (
	"context"
	"log/slog"

	"supplierportal/internal/models"
)

type MessageStore interface {
	HasAttachmentForSupplier(ctx context.Context, fileURL, supplierID string) (bool, error)
}

type ResponseStore interface {
	HasFileForSupplier(ctx context.Context, fileURL, supplierID string) (bool, error)
}

// Authorizer decide se um ator pode baixar um arquivo. Compradores
// administram os registros, então leem qualquer arquivo; fornecedores só
// alcançam arquivos ligados às próprias mensagens ou respostas. URL
// desconhecida dá false, nunca erro.
type Authorizer struct {
	Messages  MessageStore
	Responses ResponseStore
	Log       *slog.Logger
}

func (a *Authorizer) IsAuthorizedToDownload(ctx context.Context, fileURL string, actor models.Actor) bool {
	if !actor.IsSupplier() {
		return true
	}
	if actor.CompanyID == "" {
		return false
	}

	ok, err := a.Messages.HasAttachmentForSupplier(ctx, fileURL, actor.CompanyID)
	if err != nil {
		a.log().Error("file_auth_message_scan_error", "url", fileURL, "err", err)
	} else if ok {
		return true
	}

	ok, err = a.Responses.HasFileForSupplier(ctx, fileURL, actor.CompanyID)
	if err != nil {
		a.log().Error("file_auth_response_scan_error", "url", fileURL, "err", err)
		return false
	}
	return ok
}

func (a *Authorizer) log() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}
