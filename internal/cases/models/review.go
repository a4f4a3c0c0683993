package models

import (
	"time"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

// StatementStatus is the review state of a bank statement.
type StatementStatus string

const (
	StatementStatusPendingReview StatementStatus = "Pending Review"
	StatementStatusVerified      StatementStatus = "Verified"
	StatementStatusRejected      StatementStatus = "Rejected"
	StatementStatusFlagged       StatementStatus = "Flagged"
)

// ParseStatementStatus validates a bank statement review status.
func ParseStatementStatus(s string) (StatementStatus, error) {
	switch st := StatementStatus(s); st {
	case StatementStatusPendingReview, StatementStatusVerified, StatementStatusRejected, StatementStatusFlagged:
		return st, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "status required")
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid status")
	}
}

// FormStatus is the review state of an occupation form.
type FormStatus string

const (
	FormStatusApproved               FormStatus = "Approved"
	FormStatusRejected               FormStatus = "Rejected"
	FormStatusPendingReview          FormStatus = "Pending Review"
	FormStatusAdditionalInfoRequired FormStatus = "Additional Info Required"
)

// ParseFormStatus validates an occupation form review status.
func ParseFormStatus(s string) (FormStatus, error) {
	switch st := FormStatus(s); st {
	case FormStatusApproved, FormStatusRejected, FormStatusPendingReview, FormStatusAdditionalInfoRequired:
		return st, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "status required")
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid status")
	}
}

// Review is the reviewer stamp shared by statements and forms.
type Review struct {
	ReviewedBy string     `json:"reviewedBy,omitempty" yaml:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty" yaml:"reviewedAt,omitempty"`
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (r Review) clone() Review {
	out := r
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		out.ReviewedAt = &t
	}
	return out
}

func (r *Review) stamp(reviewer, notes string, at time.Time) {
	r.ReviewedBy = reviewer
	r.ReviewedAt = &at
	r.Notes = notes
}

// BankStatement is a statement submitted for source-of-funds review.
type BankStatement struct {
	ID             id.StatementID  `json:"id" yaml:"id"`
	Bank           string          `json:"bank" yaml:"bank"`
	AccountNumber  string          `json:"accountNumber" yaml:"accountNumber"`
	Period         string          `json:"period" yaml:"period"`
	ClosingBalance float64         `json:"closingBalance" yaml:"closingBalance"`
	Currency       string          `json:"currency" yaml:"currency"`
	ReviewStatus   StatementStatus `json:"reviewStatus" yaml:"reviewStatus"`
	Review         `yaml:",inline"`
}

// ApplyReview stamps the statement with a reviewer verdict.
func (b *BankStatement) ApplyReview(status StatementStatus, reviewer, notes string, at time.Time) {
	b.ReviewStatus = status
	b.stamp(reviewer, notes, at)
}

func (b BankStatement) Clone() BankStatement {
	out := b
	out.Review = b.Review.clone()
	return out
}

// OccupationForm is the customer's declared occupation and source of wealth.
type OccupationForm struct {
	ID             id.FormID  `json:"id" yaml:"id"`
	Occupation     string     `json:"occupation" yaml:"occupation"`
	Employer       string     `json:"employer" yaml:"employer"`
	AnnualIncome   float64    `json:"annualIncome" yaml:"annualIncome"`
	SourceOfWealth string     `json:"sourceOfWealth" yaml:"sourceOfWealth"`
	SubmittedAt    time.Time  `json:"submittedAt" yaml:"submittedAt"`
	ReviewStatus   FormStatus `json:"reviewStatus" yaml:"reviewStatus"`
	Review         `yaml:",inline"`
}

// ApplyReview stamps the form with a reviewer verdict.
func (f *OccupationForm) ApplyReview(status FormStatus, reviewer, notes string, at time.Time) {
	f.ReviewStatus = status
	f.stamp(reviewer, notes, at)
}

func (f OccupationForm) Clone() OccupationForm {
	out := f
	out.Review = f.Review.clone()
	return out
}
