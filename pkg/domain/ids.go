package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "kycflow/pkg/domain-errors"
)

// Typed identifiers keep case, document and statement ids from being passed
// where another kind is expected. Values come from fixtures or path params.
type (
	CaseID      string
	DocumentID  string
	StatementID string
	FormID      string
	PolicyID    string
)

const maxIDLength = 64

// idPattern admits fixture ids ("C-1001", "BS-1003-01") and generated
// document ids ("DOC-<uuid>"). No stored record can have any other shape,
// so a value outside it is reported as not found without a lookup.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func (id CaseID) String() string      { return string(id) }
func (id DocumentID) String() string  { return string(id) }
func (id StatementID) String() string { return string(id) }
func (id FormID) String() string      { return string(id) }
func (id PolicyID) String() string    { return string(id) }

// ParseCaseID validates a case identifier taken from a request path.
func ParseCaseID(s string) (CaseID, error) {
	v, err := parseID(s, "case id")
	return CaseID(v), err
}

// ParseDocumentID validates a document identifier taken from a request path.
func ParseDocumentID(s string) (DocumentID, error) {
	v, err := parseID(s, "document id")
	return DocumentID(v), err
}

// ParseStatementID validates a bank statement identifier taken from a request path.
func ParseStatementID(s string) (StatementID, error) {
	v, err := parseID(s, "bank statement id")
	return StatementID(v), err
}

// NewDocumentID generates an id for a freshly uploaded document.
func NewDocumentID() DocumentID {
	return DocumentID("DOC-" + uuid.NewString())
}

// parseID never trims: " C-1001" is a different (and unknown) id.
func parseID(s, kind string) (string, error) {
	if s == "" || len(s) > maxIDLength || !idPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeNotFound, notFoundMessage(kind))
	}
	return s, nil
}

func notFoundMessage(kind string) string {
	return strings.TrimSuffix(kind, " id") + " not found"
}
