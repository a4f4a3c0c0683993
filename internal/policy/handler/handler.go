package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycflow/internal/policy"
	"kycflow/pkg/platform/httputil"
	"kycflow/pkg/requestcontext"
)

// Searcher finds policies by free text.
type Searcher interface {
	Search(query string) []policy.Policy
}

type Handler struct {
	policies Searcher
	logger   *slog.Logger
}

func New(policies Searcher, logger *slog.Logger) *Handler {
	return &Handler{policies: policies, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/policies/search", h.HandleSearch)
}

// HandleSearch handles GET /api/policies/search?q=. The response is always a
// JSON array, empty when nothing matches.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")
	results := h.policies.Search(query)
	h.logger.DebugContext(ctx, "policy search",
		"request_id", requestcontext.RequestID(ctx),
		"query", query,
		"matches", len(results),
	)
	httputil.WriteJSON(w, http.StatusOK, results)
}
