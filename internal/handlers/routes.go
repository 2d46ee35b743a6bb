package handlers

import "net/http"

// NewRouter monta o mux da API. Rotas sem barra final caem no handler de
// coleção; com sub-caminho, no handler por id.
func NewRouter(ch *CompanyHandler, th *TenderHandler, ah *AuditHandler, fh *FeedbackHandler, flh *FileHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ch.Health)

	mux.HandleFunc("/api/companies", ch.Companies)
	mux.HandleFunc("/api/companies/", ch.CompanyByPath)
	mux.HandleFunc("/api/difot-scores", ch.DifotScores)
	mux.HandleFunc("/api/due-diligences", ch.DueDiligences)
	mux.HandleFunc("/api/due-diligences/", ch.DueDiligences)

	mux.HandleFunc("/api/tenders", th.Tenders)
	mux.HandleFunc("/api/tenders/", th.TenderByPath)

	mux.HandleFunc("/api/audits", ah.Audits)
	mux.HandleFunc("/api/audits/", ah.AuditByPath)
	mux.HandleFunc("/api/physical-audits", ah.PhysicalAudits)
	mux.HandleFunc("/api/physical-audits/", ah.PhysicalAudits)

	mux.HandleFunc("/api/feedbacks", fh.Feedbacks)
	mux.HandleFunc("/api/feedbacks/", fh.FeedbackByPath)

	mux.HandleFunc("/api/files/authorize", flh.Authorize)

	return mux
}
