package models

import (
	"time"

	id "kycflow/pkg/domain"
)

// CaseStatus is the position of a case in the KYC workflow.
type CaseStatus string

const (
	CaseStatusIngestion  CaseStatus = "Ingestion"
	CaseStatusIntake     CaseStatus = "Intake"
	CaseStatusIdentity   CaseStatus = "Identity"
	CaseStatusScreening  CaseStatus = "Screening"
	CaseStatusDecision   CaseStatus = "Decision"
	CaseStatusMonitoring CaseStatus = "Monitoring"
	CaseStatusApproved   CaseStatus = "Approved"
	CaseStatusRejected   CaseStatus = "Rejected"
)

var validCaseStatuses = map[CaseStatus]struct{}{
	CaseStatusIngestion:  {},
	CaseStatusIntake:     {},
	CaseStatusIdentity:   {},
	CaseStatusScreening:  {},
	CaseStatusDecision:   {},
	CaseStatusMonitoring: {},
	CaseStatusApproved:   {},
	CaseStatusRejected:   {},
}

func (s CaseStatus) IsValid() bool {
	_, ok := validCaseStatuses[s]
	return ok
}

// Tier drives periodic review cadence (POL-005).
type Tier string

const (
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
	TierVIP      Tier = "VIP"
)

func (t Tier) IsValid() bool {
	return t == TierStandard || t == TierPremium || t == TierVIP
}

// IntakeDocumentThreshold is the document count at which a case in Ingestion
// moves to Intake.
const IntakeDocumentThreshold = 2

// Customer is the profile embedded in every case.
type Customer struct {
	Name             string `json:"name" yaml:"name"`
	DOB              string `json:"dob" yaml:"dob"`
	Address          string `json:"address" yaml:"address"`
	Tier             Tier   `json:"tier" yaml:"tier"`
	IsWealthCustomer bool   `json:"isWealthCustomer" yaml:"isWealthCustomer"`
}

// Check is one compliance check result. Confidence is absent for checks that
// have not produced a score yet.
type Check struct {
	Type       string   `json:"type" yaml:"type"`
	Result     string   `json:"result" yaml:"result"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Details    string   `json:"details" yaml:"details"`
}

// Case is a customer KYC record moving through the workflow.
//
// Invariants:
//   - ID is unique within the working set
//   - Status is one of the CaseStatus constants
//   - Status moves Ingestion -> Intake exactly when the document count first
//     reaches IntakeDocumentThreshold
type Case struct {
	ID             id.CaseID       `json:"id" yaml:"id"`
	Customer       Customer        `json:"customer" yaml:"customer"`
	Status         CaseStatus      `json:"status" yaml:"status"`
	Checks         []Check         `json:"checks" yaml:"checks"`
	Documents      []Document      `json:"documents" yaml:"documents"`
	BankStatements []BankStatement `json:"bankStatements" yaml:"bankStatements"`
	OccupationForm *OccupationForm `json:"occupationForm,omitempty" yaml:"occupationForm,omitempty"`
	RiskScore      float64         `json:"riskScore" yaml:"riskScore"`
	CreatedAt      time.Time       `json:"createdAt" yaml:"createdAt"`
	DecisionNote   string          `json:"decisionNote,omitempty" yaml:"decisionNote,omitempty"`
}

// ApplyDecision maps a reviewer decision onto the case status. Pending leaves
// the status untouched; a non-empty note replaces the stored note.
func (c *Case) ApplyDecision(d Decision, note string) {
	switch d {
	case DecisionApprove:
		c.Status = CaseStatusApproved
	case DecisionReject:
		c.Status = CaseStatusRejected
	}
	if note != "" {
		c.DecisionNote = note
	}
}

// AddDocument appends doc and applies the Ingestion -> Intake transition.
// It reports whether the status changed.
func (c *Case) AddDocument(doc Document) bool {
	c.Documents = append(c.Documents, doc)
	if c.Status == CaseStatusIngestion && len(c.Documents) >= IntakeDocumentThreshold {
		c.Status = CaseStatusIntake
		return true
	}
	return false
}

// RemoveDocument deletes the document with the given id and returns it.
func (c *Case) RemoveDocument(docID id.DocumentID) (Document, bool) {
	for i, d := range c.Documents {
		if d.ID == docID {
			c.Documents = append(c.Documents[:i], c.Documents[i+1:]...)
			return d, true
		}
	}
	return Document{}, false
}

// FindDocument returns a pointer into the case's document list.
func (c *Case) FindDocument(docID id.DocumentID) *Document {
	for i := range c.Documents {
		if c.Documents[i].ID == docID {
			return &c.Documents[i]
		}
	}
	return nil
}

// FindBankStatement returns a pointer into the case's statement list.
func (c *Case) FindBankStatement(statementID id.StatementID) *BankStatement {
	for i := range c.BankStatements {
		if c.BankStatements[i].ID == statementID {
			return &c.BankStatements[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers outside the store never alias the
// working set.
func (c *Case) Clone() *Case {
	if c == nil {
		return nil
	}
	out := *c
	if c.Checks != nil {
		out.Checks = make([]Check, len(c.Checks))
		for i, chk := range c.Checks {
			out.Checks[i] = chk
			if chk.Confidence != nil {
				v := *chk.Confidence
				out.Checks[i].Confidence = &v
			}
		}
	}
	if c.Documents != nil {
		out.Documents = make([]Document, len(c.Documents))
		for i := range c.Documents {
			out.Documents[i] = c.Documents[i].Clone()
		}
	}
	if c.BankStatements != nil {
		out.BankStatements = make([]BankStatement, len(c.BankStatements))
		for i := range c.BankStatements {
			out.BankStatements[i] = c.BankStatements[i].Clone()
		}
	}
	if c.OccupationForm != nil {
		form := c.OccupationForm.Clone()
		out.OccupationForm = &form
	}
	return &out
}
