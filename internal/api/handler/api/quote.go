// internal/api/handler/api/quote.go
package api

import (
	"net/http"

	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/core"
)

// QuoteHandler serves live price snapshots.
type QuoteHandler struct {
	provider collector.Provider
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(provider collector.Provider) *QuoteHandler {
	return &QuoteHandler{provider: provider}
}

// Get returns the current quote for ?asset=<id>.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	quote, err := h.provider.FetchQuote(r.Context(), asset)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.JSON(w, http.StatusOK, quote)
}
