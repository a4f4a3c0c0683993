package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

type CaseModelSuite struct {
	suite.Suite
}

func TestCaseModelSuite(t *testing.T) {
	suite.Run(t, new(CaseModelSuite))
}

func (s *CaseModelSuite) newCase(status CaseStatus) *Case {
	return &Case{
		ID:       "C-9001",
		Customer: Customer{Name: "Test Customer", Tier: TierStandard},
		Status:   status,
	}
}

// TestApplyDecision verifies the decision -> status mapping for every decision.
func (s *CaseModelSuite) TestApplyDecision() {
	tests := []struct {
		decision Decision
		want     CaseStatus
	}{
		{DecisionApprove, CaseStatusApproved},
		{DecisionReject, CaseStatusRejected},
		{DecisionPending, CaseStatusScreening},
	}
	for _, tt := range tests {
		s.Run(string(tt.decision), func() {
			c := s.newCase(CaseStatusScreening)
			c.ApplyDecision(tt.decision, "")
			s.Equal(tt.want, c.Status)
			s.Empty(c.DecisionNote)
		})
	}

	s.Run("note stored when present", func() {
		c := s.newCase(CaseStatusDecision)
		c.ApplyDecision(DecisionPending, "awaiting proof of address")
		s.Equal(CaseStatusDecision, c.Status)
		s.Equal("awaiting proof of address", c.DecisionNote)
	})

	s.Run("empty note keeps previous note", func() {
		c := s.newCase(CaseStatusDecision)
		c.DecisionNote = "first"
		c.ApplyDecision(DecisionApprove, "")
		s.Equal("first", c.DecisionNote)
	})
}

// TestIntakeTransition verifies Ingestion -> Intake happens exactly when the
// document count first reaches the threshold.
func (s *CaseModelSuite) TestIntakeTransition() {
	s.Run("first document keeps ingestion", func() {
		c := s.newCase(CaseStatusIngestion)
		changed := c.AddDocument(Document{ID: "DOC-1"})
		s.False(changed)
		s.Equal(CaseStatusIngestion, c.Status)
	})

	s.Run("second document moves to intake", func() {
		c := s.newCase(CaseStatusIngestion)
		c.AddDocument(Document{ID: "DOC-1"})
		changed := c.AddDocument(Document{ID: "DOC-2"})
		s.True(changed)
		s.Equal(CaseStatusIntake, c.Status)

		changed = c.AddDocument(Document{ID: "DOC-3"})
		s.False(changed)
		s.Equal(CaseStatusIntake, c.Status)
	})

	s.Run("other statuses never change", func() {
		c := s.newCase(CaseStatusScreening)
		for i := 0; i < 3; i++ {
			s.False(c.AddDocument(Document{ID: id.DocumentID(fmt.Sprintf("DOC-%d", i))}))
		}
		s.Equal(CaseStatusScreening, c.Status)
	})
}

func (s *CaseModelSuite) TestRemoveDocument() {
	c := s.newCase(CaseStatusIntake)
	c.AddDocument(Document{ID: "DOC-1", Name: "passport.pdf"})
	c.AddDocument(Document{ID: "DOC-2", Name: "bill.png"})

	removed, ok := c.RemoveDocument("DOC-1")
	s.True(ok)
	s.Equal("passport.pdf", removed.Name)
	s.Len(c.Documents, 1)
	s.Nil(c.FindDocument("DOC-1"))

	_, ok = c.RemoveDocument("DOC-1")
	s.False(ok)
}

// TestClone verifies mutations on a clone never reach the original.
func (s *CaseModelSuite) TestClone() {
	conf := 0.9
	reviewedAt := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	orig := s.newCase(CaseStatusIntake)
	orig.Checks = []Check{{Type: "PEP Screening", Result: "Clear", Confidence: &conf}}
	orig.Documents = []Document{{ID: "DOC-1", OCRMetadata: &Extraction{Name: "A", Images: []ImageAnnotation{{Type: "portrait"}}}, Classification: &Classification{DocumentType: "Passport"}}}
	orig.BankStatements = []BankStatement{{ID: "BS-1", Review: Review{ReviewedAt: &reviewedAt}}}
	orig.OccupationForm = &OccupationForm{ID: "OF-1", Occupation: "Engineer"}

	cp := orig.Clone()
	*cp.Checks[0].Confidence = 0.1
	cp.Documents[0].OCRMetadata.Name = "B"
	cp.Documents[0].OCRMetadata.Images[0].Type = "signature"
	cp.Documents[0].Classification.DocumentType = "Other"
	*cp.BankStatements[0].ReviewedAt = time.Time{}
	cp.OccupationForm.Occupation = "Chef"
	cp.Status = CaseStatusRejected

	s.Equal(0.9, *orig.Checks[0].Confidence)
	s.Equal("A", orig.Documents[0].OCRMetadata.Name)
	s.Equal("portrait", orig.Documents[0].OCRMetadata.Images[0].Type)
	s.Equal("Passport", orig.Documents[0].Classification.DocumentType)
	s.Equal(reviewedAt, *orig.BankStatements[0].ReviewedAt)
	s.Equal("Engineer", orig.OccupationForm.Occupation)
	s.Equal(CaseStatusIntake, orig.Status)
}

func TestParseDecision(t *testing.T) {
	for _, valid := range []string{"Approve", "Reject", "Pending"} {
		d, err := ParseDecision(valid)
		require.NoError(t, err)
		assert.Equal(t, Decision(valid), d)
	}

	_, err := ParseDecision("")
	require.Error(t, err)
	assert.Equal(t, "decision required", dErrors.MessageOf(err))

	for _, invalid := range []string{"approve", "Escalate", " Approve"} {
		_, err := ParseDecision(invalid)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "invalid decision", dErrors.MessageOf(err))
	}
}

func TestParseReviewStatuses(t *testing.T) {
	for _, s := range []string{"Approved", "Rejected", "Pending Review", "Additional Info Required"} {
		_, err := ParseFormStatus(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormStatus("Verified")
	assert.Error(t, err)

	for _, s := range []string{"Pending Review", "Verified", "Rejected", "Flagged"} {
		_, err := ParseStatementStatus(s)
		assert.NoError(t, err, s)
	}
	_, err = ParseStatementStatus("Approved")
	assert.Error(t, err)
}

func TestReviewStamp(t *testing.T) {
	at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	form := OccupationForm{ID: "OF-1", ReviewStatus: FormStatusPendingReview}
	form.ApplyReview(FormStatusAdditionalInfoRequired, "analyst.lee", "need payslips", at)

	assert.Equal(t, FormStatusAdditionalInfoRequired, form.ReviewStatus)
	assert.Equal(t, "analyst.lee", form.ReviewedBy)
	assert.Equal(t, "need payslips", form.Notes)
	require.NotNil(t, form.ReviewedAt)
	assert.Equal(t, at, *form.ReviewedAt)
}
