package handler

import (
	"strings"

	dErrors "kycflow/pkg/domain-errors"
)

const maxNoteLength = 2000

// DecisionRequest is the body of POST /api/cases/{caseID}/decision.
type DecisionRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

// Normalize trims the decision only; the note is stored and echoed as sent.
func (r *DecisionRequest) Normalize() {
	r.Decision = strings.TrimSpace(r.Decision)
}

// Validate checks sizes only; decision values are parsed by the service.
func (r *DecisionRequest) Validate() error {
	if len(r.Note) > maxNoteLength {
		return dErrors.New(dErrors.CodeValidation, "note too long")
	}
	return nil
}

// ReviewRequest is the body of the bank statement and occupation form review
// endpoints.
type ReviewRequest struct {
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewedBy"`
	Notes      string `json:"notes"`
}

func (r *ReviewRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.ReviewedBy = strings.TrimSpace(r.ReviewedBy)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *ReviewRequest) Validate() error {
	if len(r.ReviewedBy) > 200 {
		return dErrors.New(dErrors.CodeValidation, "reviewedBy too long")
	}
	if len(r.Notes) > maxNoteLength {
		return dErrors.New(dErrors.CodeValidation, "notes too long")
	}
	return nil
}
