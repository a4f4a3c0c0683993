package models

import (
	dErrors "kycflow/pkg/domain-errors"
)

// Decision is a reviewer verdict posted against a case.
type Decision string

const (
	DecisionApprove Decision = "Approve"
	DecisionReject  Decision = "Reject"
	DecisionPending Decision = "Pending"
)

// ParseDecision validates a decision string. Matching is exact, as clients
// send the capitalized labels.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionApprove, DecisionReject, DecisionPending:
		return d, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "decision required")
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid decision")
	}
}
