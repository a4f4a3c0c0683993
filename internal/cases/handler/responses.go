package handler

import (
	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
)

type DecisionResponse struct {
	OK     bool              `json:"ok"`
	ID     id.CaseID         `json:"id"`
	Status models.CaseStatus `json:"status"`
	Note   string            `json:"note"`
}

// FromDecision echoes the note sent with this decision, which is empty when
// the request carried none.
func FromDecision(c *models.Case, note string) DecisionResponse {
	return DecisionResponse{OK: true, ID: c.ID, Status: c.Status, Note: note}
}

type StatementReviewResponse struct {
	OK        bool                  `json:"ok"`
	ID        id.CaseID             `json:"id"`
	Statement *models.BankStatement `json:"statement"`
}

type FormReviewResponse struct {
	OK             bool                   `json:"ok"`
	ID             id.CaseID              `json:"id"`
	OccupationForm *models.OccupationForm `json:"occupationForm"`
}
