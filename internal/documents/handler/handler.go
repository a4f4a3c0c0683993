package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	casemodels "kycflow/internal/cases/models"
	"kycflow/internal/documents/models"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/httputil"
	"kycflow/pkg/requestcontext"
)

const (
	// multipartOverhead covers boundaries and the small text fields that
	// travel alongside the file.
	multipartOverhead = 1 << 20
	maxFieldBytes     = 4 << 10
)

// Service is the document pipeline as seen by the HTTP layer.
type Service interface {
	Upload(ctx context.Context, cmd models.UploadCommand) (*models.UploadResult, error)
	List(ctx context.Context, caseID id.CaseID) ([]casemodels.Document, error)
	Delete(ctx context.Context, caseID id.CaseID, docID id.DocumentID) error
	OCR(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*casemodels.Document, error)
	Open(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*os.File, *casemodels.Document, error)
	MaxUploadBytes() int64
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts document routes. Paths are relative to /api.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases/{caseID}/documents", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleUpload)
		r.Delete("/{documentID}", h.HandleDelete)
		r.Get("/{documentID}/ocr", h.HandleOCR)
		r.Get("/{documentID}/preview", h.HandlePreview)
	})
}

// HandleUpload handles POST /api/cases/{caseID}/documents. The body is read
// part by part: a file whose extension is not allowed is never buffered, and
// an allowed one is held in memory only up to one byte past the upload limit.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxUploadBytes()+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read multipart form",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}

	form, err := h.readUploadForm(mr)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse multipart form",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	declared, err := parseSize(form.fields["size"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cmd := models.UploadCommand{
		CaseID:       caseID,
		Name:         form.fields["name"],
		Type:         form.fields["type"],
		Category:     form.fields["category"],
		DeclaredSize: declared,
	}
	if form.hasFile {
		cmd.Filename = form.filename
		cmd.ContentType = form.contentType
		cmd.ActualSize = int64(form.content.Len())
		cmd.Content = &form.content
	}

	res, err := h.service.Upload(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "upload rejected",
			"request_id", requestID,
			"case_id", caseID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromUpload(res))
}

type uploadForm struct {
	fields      map[string]string
	hasFile     bool
	disallowed  bool
	filename    string
	contentType string
	content     bytes.Buffer
}

// readUploadForm walks the parts in order. The first value of each text field
// and the first "file" part win; later duplicates are drained unread. A file
// with a disallowed extension ends the walk, since the upload is rejected
// whatever follows it.
func (h *Handler) readUploadForm(mr *multipart.Reader) (*uploadForm, error) {
	form := &uploadForm{fields: map[string]string{}}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return nil, multipartErr(err)
		}
		if err := h.readPart(form, part); err != nil {
			return nil, err
		}
		if form.disallowed {
			return form, nil
		}
		if _, err := io.Copy(io.Discard, part); err != nil {
			return nil, multipartErr(err)
		}
	}
}

func (h *Handler) readPart(form *uploadForm, part *multipart.Part) error {
	name := part.FormName()
	switch {
	case name == "file":
		if form.hasFile {
			return nil
		}
		form.hasFile = true
		form.filename = part.FileName()
		form.contentType = part.Header.Get("Content-Type")
		if !models.IsAllowedExtension(form.filename) {
			form.disallowed = true
			return nil
		}
		if _, err := form.content.ReadFrom(io.LimitReader(part, h.service.MaxUploadBytes()+1)); err != nil {
			return multipartErr(err)
		}
	case name != "" && part.FileName() == "":
		if _, seen := form.fields[name]; seen {
			return nil
		}
		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
		if err != nil {
			return multipartErr(err)
		}
		form.fields[name] = string(value)
	}
	return nil
}

func multipartErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return dErrors.New(dErrors.CodePayloadTooLarge, "file too large")
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart form")
}

func parseSize(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "invalid size")
	}
	return n, nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	docs, err := h.service.List(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{OK: true, Documents: docs})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caseID, docID, ok := h.documentRef(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), caseID, docID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DeleteResponse{OK: true, ID: docID})
}

func (h *Handler) HandleOCR(w http.ResponseWriter, r *http.Request) {
	caseID, docID, ok := h.documentRef(w, r)
	if !ok {
		return
	}
	doc, err := h.service.OCR(r.Context(), caseID, docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDocument(doc))
}

// HandlePreview streams the stored file inline. Range requests are honoured.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, docID, ok := h.documentRef(w, r)
	if !ok {
		return
	}
	f, doc, err := h.service.Open(ctx, caseID, docID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to open document",
				"request_id", requestcontext.RequestID(ctx),
				"document_id", docID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	defer f.Close()

	if doc.ContentType != "" {
		w.Header().Set("Content-Type", doc.ContentType)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": doc.Name}))
	http.ServeContent(w, r, doc.Name, doc.UploadedAt, f)
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return caseID, true
}

func (h *Handler) documentRef(w http.ResponseWriter, r *http.Request) (id.CaseID, id.DocumentID, bool) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return "", "", false
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", "", false
	}
	return caseID, docID, true
}
