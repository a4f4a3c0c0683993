package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/httputil"
	"kycflow/pkg/requestcontext"
)

// Service is the case repository as seen by the HTTP layer.
type Service interface {
	List(ctx context.Context) ([]*models.Case, error)
	Get(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ApplyDecision(ctx context.Context, caseID id.CaseID, decision, note string) (*models.Case, error)
	ReviewBankStatement(ctx context.Context, caseID id.CaseID, statementID id.StatementID, status, reviewer, notes string) (*models.BankStatement, error)
	ReviewOccupationForm(ctx context.Context, caseID id.CaseID, status, reviewer, notes string) (*models.OccupationForm, error)
}

// Handler serves the case endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts case routes. Paths are relative to /api.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cases", h.HandleList)
	r.Get("/cases/{caseID}", h.HandleGet)
	r.Post("/cases/{caseID}/decision", h.HandleDecision)
	r.Post("/cases/{caseID}/bank-statements/{statementID}/review", h.HandleReviewBankStatement)
	r.Post("/cases/{caseID}/occupation-form/review", h.HandleReviewOccupationForm)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cases, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list cases",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cases)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(ctx, caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleDecision handles POST /api/cases/{caseID}/decision.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := h.knownCaseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.service.ApplyDecision(ctx, caseID, req.Decision, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "decision rejected",
			"request_id", requestID,
			"case_id", caseID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDecision(c, req.Note))
}

func (h *Handler) HandleReviewBankStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := h.knownCaseID(w, r)
	if !ok {
		return
	}
	statementID, err := id.ParseStatementID(chi.URLParam(r, "statementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	stmt, err := h.service.ReviewBankStatement(ctx, caseID, statementID, req.Status, req.ReviewedBy, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatementReviewResponse{OK: true, ID: caseID, Statement: stmt})
}

func (h *Handler) HandleReviewOccupationForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := h.knownCaseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	form, err := h.service.ReviewOccupationForm(ctx, caseID, req.Status, req.ReviewedBy, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FormReviewResponse{OK: true, ID: caseID, OccupationForm: form})
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return caseID, true
}

// knownCaseID resolves the path case before any body is read, so writes to an
// unknown case are not_found regardless of payload.
func (h *Handler) knownCaseID(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return "", false
	}
	if _, err := h.service.Get(r.Context(), caseID); err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return caseID, true
}
