// internal/api/handler/api/strategies.go
package api

import (
	"net/http"
	"sort"

	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/strategy"
)

// StrategiesHandler lists registered strategies.
type StrategiesHandler struct {
	strategies *strategy.Engine
}

// NewStrategiesHandler creates a new strategies handler.
func NewStrategiesHandler(engine *strategy.Engine) *StrategiesHandler {
	return &StrategiesHandler{strategies: engine}
}

// List returns the registered strategies with descriptions.
func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.strategies.Names()
	sort.Strings(names)

	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		MinHistory  int    `json:"min_history"`
	}

	entries := make([]entry, 0, len(names))
	for _, name := range names {
		s, ok := h.strategies.Get(name)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			Name:        s.Name(),
			Description: s.Description(),
			MinHistory:  s.MinHistory(),
		})
	}

	response.JSON(w, http.StatusOK, entries)
}
