package service

import (
	"context"
	"errors"
	"log/slog"

	"kycflow/internal/cases/metrics"
	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/sentinel"
	"kycflow/pkg/requestcontext"
)

// Store is the case working set. Execute holds the write lock across validate
// and mutate.
type Store interface {
	List(ctx context.Context) ([]*models.Case, error)
	FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	Execute(ctx context.Context, caseID id.CaseID, validate func(*models.Case) error, mutate func(*models.Case)) (*models.Case, error)
}

// Service is the case repository used by the HTTP layer and document ingestion.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*models.Case, error) {
	cases, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cases")
	}
	return cases, nil
}

func (s *Service) Get(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err, "failed to load case")
	}
	return c, nil
}

// ApplyDecision records a reviewer decision. The raw decision string is
// parsed only once the case is known, so an unknown case always reads as
// not found whatever the payload.
func (s *Service) ApplyDecision(ctx context.Context, caseID id.CaseID, rawDecision, note string) (*models.Case, error) {
	var decision models.Decision
	updated, err := s.store.Execute(ctx, caseID,
		func(*models.Case) error {
			var err error
			decision, err = models.ParseDecision(rawDecision)
			return err
		},
		func(c *models.Case) {
			c.ApplyDecision(decision, note)
		},
	)
	if err != nil {
		return nil, wrapCaseErr(err, "failed to apply decision")
	}
	s.metrics.IncrementDecision(string(decision))
	s.logger.InfoContext(ctx, "case decision applied",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID.String(),
		"decision", string(decision),
		"status", string(updated.Status),
	)
	return updated, nil
}

// ReviewBankStatement stamps one statement with the reviewer's verdict and
// returns the updated statement.
func (s *Service) ReviewBankStatement(ctx context.Context, caseID id.CaseID, statementID id.StatementID, rawStatus, reviewer, notes string) (*models.BankStatement, error) {
	now := requestcontext.Now(ctx)
	var (
		status   models.StatementStatus
		reviewed models.BankStatement
	)
	_, err := s.store.Execute(ctx, caseID,
		func(c *models.Case) error {
			if c.FindBankStatement(statementID) == nil {
				return dErrors.New(dErrors.CodeNotFound, "bank statement not found")
			}
			var err error
			status, err = models.ParseStatementStatus(rawStatus)
			return err
		},
		func(c *models.Case) {
			stmt := c.FindBankStatement(statementID)
			stmt.ApplyReview(status, reviewer, notes, now)
			reviewed = stmt.Clone()
		},
	)
	if err != nil {
		return nil, wrapCaseErr(err, "failed to review bank statement")
	}
	s.metrics.IncrementReview("bank_statement", string(status))
	s.logger.InfoContext(ctx, "bank statement reviewed",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID.String(),
		"statement_id", statementID.String(),
		"status", string(status),
	)
	return &reviewed, nil
}

// ReviewOccupationForm stamps the case's occupation form.
func (s *Service) ReviewOccupationForm(ctx context.Context, caseID id.CaseID, rawStatus, reviewer, notes string) (*models.OccupationForm, error) {
	now := requestcontext.Now(ctx)
	var (
		status   models.FormStatus
		reviewed models.OccupationForm
	)
	_, err := s.store.Execute(ctx, caseID,
		func(c *models.Case) error {
			if c.OccupationForm == nil {
				return dErrors.New(dErrors.CodeNotFound, "occupation form not found")
			}
			var err error
			status, err = models.ParseFormStatus(rawStatus)
			return err
		},
		func(c *models.Case) {
			c.OccupationForm.ApplyReview(status, reviewer, notes, now)
			reviewed = c.OccupationForm.Clone()
		},
	)
	if err != nil {
		return nil, wrapCaseErr(err, "failed to review occupation form")
	}
	s.metrics.IncrementReview("occupation_form", string(status))
	s.logger.InfoContext(ctx, "occupation form reviewed",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID.String(),
		"status", string(status),
	)
	return &reviewed, nil
}

// AddDocument appends doc to the case, advancing Ingestion to Intake once the
// document threshold is reached. Returns the updated case.
func (s *Service) AddDocument(ctx context.Context, caseID id.CaseID, doc models.Document) (*models.Case, error) {
	var (
		from     models.CaseStatus
		advanced bool
	)
	updated, err := s.store.Execute(ctx, caseID, nil, func(c *models.Case) {
		from = c.Status
		advanced = c.AddDocument(doc)
	})
	if err != nil {
		return nil, wrapCaseErr(err, "failed to attach document")
	}
	if advanced {
		s.metrics.IncrementTransition(string(from), string(updated.Status))
		s.logger.InfoContext(ctx, "case status advanced",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID.String(),
			"from", string(from),
			"to", string(updated.Status),
		)
	}
	return updated, nil
}

// RemoveDocument detaches a document and returns the removed record so the
// caller can clean up its file.
func (s *Service) RemoveDocument(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*models.Document, error) {
	var removed models.Document
	_, err := s.store.Execute(ctx, caseID,
		func(c *models.Case) error {
			if c.FindDocument(docID) == nil {
				return dErrors.New(dErrors.CodeNotFound, "document not found")
			}
			return nil
		},
		func(c *models.Case) {
			removed, _ = c.RemoveDocument(docID)
		},
	)
	if err != nil {
		return nil, wrapCaseErr(err, "failed to remove document")
	}
	return &removed, nil
}

func (s *Service) FindDocument(ctx context.Context, caseID id.CaseID, docID id.DocumentID) (*models.Document, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	doc := c.FindDocument(docID)
	if doc == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	return doc, nil
}

// wrapCaseErr passes coded errors through and maps store sentinels.
func wrapCaseErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
