package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycflow/internal/workflow"
	"kycflow/pkg/platform/httputil"
)

type Handler struct {
	graph workflow.Graph
}

func New(graph workflow.Graph) *Handler {
	return &Handler{graph: graph}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/workflow", h.HandleGraph)
}

func (h *Handler) HandleGraph(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.graph)
}
