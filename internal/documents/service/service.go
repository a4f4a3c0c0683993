package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"kycflow/internal/annotation"
	casemodels "kycflow/internal/cases/models"
	"kycflow/internal/documents/filestore"
	"kycflow/internal/documents/metrics"
	"kycflow/internal/documents/models"
	"kycflow/internal/platform/config"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/sentinel"
	"kycflow/pkg/requestcontext"
)

// CaseRepository is the slice of the case service that documents need.
type CaseRepository interface {
	Get(ctx context.Context, caseID id.CaseID) (*casemodels.Case, error)
	AddDocument(ctx context.Context, caseID id.CaseID, doc casemodels.Document) (*casemodels.Case, error)
	RemoveDocument(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*casemodels.Document, error)
	FindDocument(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*casemodels.Document, error)
}

type Annotator interface {
	Classify(ctx context.Context, in annotation.Input) (*casemodels.Classification, error)
	Extract(ctx context.Context, in annotation.Input) (*casemodels.Extraction, error)
}

type FileStore interface {
	Save(ctx context.Context, caseID id.CaseID, docID id.DocumentID, name string, r io.Reader, limit int64) (string, int64, error)
	Open(path string) (*os.File, error)
	Remove(path string) error
}

// Service runs the upload pipeline and the per-document read paths.
type Service struct {
	cases     CaseRepository
	annotator Annotator
	files     FileStore
	maxBytes  int64
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMaxUploadBytes overrides config.DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func New(cases CaseRepository, annotator Annotator, files FileStore, opts ...Option) *Service {
	s := &Service{
		cases:     cases,
		annotator: annotator,
		files:     files,
		maxBytes:  config.DefaultMaxUploadBytes,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxUploadBytes() int64 { return s.maxBytes }

// Upload validates, stores, annotates and attaches one file. Type and size
// checks happen before anything touches disk; if annotation fails the file
// is removed again and the case is left unchanged.
func (s *Service) Upload(ctx context.Context, cmd models.UploadCommand) (*models.UploadResult, error) {
	requestID := requestcontext.RequestID(ctx)

	if _, err := s.cases.Get(ctx, cmd.CaseID); err != nil {
		return nil, err
	}
	if err := s.checkUpload(cmd); err != nil {
		s.metrics.IncrementUpload("rejected")
		return nil, err
	}

	docID := id.NewDocumentID()
	name := models.SanitizeFilename(cmd.Filename)
	var buf bytes.Buffer
	path, size, err := s.files.Save(ctx, cmd.CaseID, docID, name, io.TeeReader(cmd.Content, &buf), s.maxBytes)
	if err != nil {
		if errors.Is(err, filestore.ErrTooLarge) {
			s.metrics.IncrementUpload("rejected")
			return nil, dErrors.New(dErrors.CodeValidation, "file too large")
		}
		s.metrics.IncrementUpload("failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}

	in := annotation.Input{
		CaseID:      cmd.CaseID,
		DocumentID:  docID,
		Filename:    name,
		ContentType: cmd.ContentType,
		Content:     buf.Bytes(),
	}
	classification, extraction, err := s.annotate(ctx, in)
	if err != nil {
		s.discard(ctx, path)
		s.metrics.IncrementUpload("failed")
		s.logger.ErrorContext(ctx, "document annotation failed",
			"request_id", requestID,
			"case_id", cmd.CaseID.String(),
			"document_id", docID.String(),
			"category", string(annotation.CategoryOf(err)),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document annotation failed")
	}

	doc := s.buildDocument(ctx, cmd, docID, path, size, in)
	doc.Classification = classification
	doc.OCRMetadata = extraction

	updated, err := s.cases.AddDocument(ctx, cmd.CaseID, doc)
	if err != nil {
		s.discard(ctx, path)
		s.metrics.IncrementUpload("failed")
		return nil, err
	}

	s.metrics.IncrementUpload("accepted")
	s.metrics.ObserveUploadSize(size)
	s.logger.InfoContext(ctx, "document uploaded",
		"request_id", requestID,
		"case_id", cmd.CaseID.String(),
		"document_id", docID.String(),
		"size", size,
		"document_type", classification.DocumentType,
		"case_status", string(updated.Status),
	)
	return &models.UploadResult{
		Document:      doc,
		CaseStatus:    updated.Status,
		DocumentCount: len(updated.Documents),
	}, nil
}

func (s *Service) checkUpload(cmd models.UploadCommand) error {
	if cmd.Content == nil || strings.TrimSpace(cmd.Filename) == "" {
		return dErrors.New(dErrors.CodeValidation, "file is required")
	}
	if !models.IsAllowedExtension(cmd.Filename) {
		return dErrors.New(dErrors.CodeValidation, "file type not allowed")
	}
	if cmd.DeclaredSize > s.maxBytes || cmd.ActualSize > s.maxBytes {
		return dErrors.New(dErrors.CodeValidation, "file too large")
	}
	return nil
}

// annotate calls Classify then Extract; both must succeed.
func (s *Service) annotate(ctx context.Context, in annotation.Input) (*casemodels.Classification, *casemodels.Extraction, error) {
	classification, err := s.annotator.Classify(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	extraction, err := s.annotator.Extract(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return classification, extraction, nil
}

func (s *Service) buildDocument(ctx context.Context, cmd models.UploadCommand, docID id.DocumentID, path string, size int64, in annotation.Input) casemodels.Document {
	displayName := strings.TrimSpace(cmd.Name)
	if displayName == "" {
		displayName = cmd.Filename
	}
	inferredType, inferredCategory := models.InferMetadata(cmd.Filename)
	docType := strings.TrimSpace(cmd.Type)
	if docType == "" {
		docType = inferredType
	}
	category := strings.TrimSpace(cmd.Category)
	if category == "" {
		category = inferredCategory
	}
	return casemodels.Document{
		ID:           docID,
		Name:         displayName,
		Type:         docType,
		Size:         size,
		UploadedAt:   requestcontext.Now(ctx),
		Status:       casemodels.DocumentStatusPendingReview,
		Category:     category,
		FilePath:     path,
		ContentType:  mimetype.Detect(in.Content).String(),
		OCRProcessed: true,
	}
}

func (s *Service) discard(ctx context.Context, path string) {
	if err := s.files.Remove(path); err != nil {
		s.logger.WarnContext(ctx, "failed to remove orphaned upload",
			"request_id", requestcontext.RequestID(ctx),
			"path", path,
			"error", err,
		)
	}
}

func (s *Service) List(ctx context.Context, caseID id.CaseID) ([]casemodels.Document, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return c.Documents, nil
}

// Delete detaches the document, then removes its file best-effort.
func (s *Service) Delete(ctx context.Context, caseID id.CaseID, docID id.DocumentID) error {
	removed, err := s.cases.RemoveDocument(ctx, caseID, docID)
	if err != nil {
		return err
	}
	s.discard(ctx, removed.FilePath)
	s.metrics.IncrementDelete()
	s.logger.InfoContext(ctx, "document deleted",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID.String(),
		"document_id", docID.String(),
	)
	return nil
}

// OCR returns the document carrying its annotation payloads.
func (s *Service) OCR(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*casemodels.Document, error) {
	return s.cases.FindDocument(ctx, caseID, docID)
}

// Open returns the stored file for preview. The caller closes it.
func (s *Service) Open(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*os.File, *casemodels.Document, error) {
	doc, err := s.cases.FindDocument(ctx, caseID, docID)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.files.Open(doc.FilePath)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "document file not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open document")
	}
	return f, doc, nil
}
