package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/services"
)

// PortfolioHandler serves the public portfolio of published users.
type PortfolioHandler struct {
	service services.PortfolioServiceProvider
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(service services.PortfolioServiceProvider) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// Get handles GET /portfolios/{id}.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	portfolio, err := h.service.GetPortfolio(r.Context(), id)
	if err != nil {
		log.Debug().Err(err).Int64("user_id", id).Msg("Portfolio unavailable")
		writeServiceError(w, err, "Portfolio")
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}
