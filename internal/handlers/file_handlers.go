package handlers

import (
	"context"
	"net/http"
	"time"

	"supplierportal/internal/models"
	"supplierportal/internal/utils"
)

type FileAuthorizer interface {
	IsAuthorizedToDownload(ctx context.Context, fileURL string, actor models.Actor) bool
}

type FileHandler struct {
	Auth FileAuthorizer
}

func NewFileHandler(auth FileAuthorizer) *FileHandler {
	return &FileHandler{Auth: auth}
}

// Authorize atende GET /api/files/authorize?url=... e devolve o veredito.
// O gateway de download consulta aqui antes de servir o arquivo.
func (h *FileHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorized(w, err)
		return
	}

	fileURL := r.URL.Query().Get("url")
	if fileURL == "" {
		utils.BadRequest(w, "url query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	ok := h.Auth.IsAuthorizedToDownload(ctx, fileURL, actor)
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isAuthorized": ok})
}
