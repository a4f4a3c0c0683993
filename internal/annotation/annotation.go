// Package annotation talks to the document-understanding model that labels
// uploaded files and pulls structured fields out of them.
//
// Implementations:
//   - VertexAnnotator: Gemini on Vertex AI, files staged through GCS
//   - StaticAnnotator: filename heuristics for local runs and tests
//
// Decorators (CachingAnnotator, FallbackAnnotator, Instrumented) wrap any
// Annotator and are composed in cmd/server.
package annotation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
)

// Input is one uploaded file. Content is held in memory; uploads are capped
// well below what that makes expensive.
type Input struct {
	CaseID      id.CaseID
	DocumentID  id.DocumentID
	Filename    string
	ContentType string
	Content     []byte
}

// Digest is the hex SHA-256 of the content. Identical bytes share annotations
// regardless of filename or case.
func (in Input) Digest() string {
	sum := sha256.Sum256(in.Content)
	return hex.EncodeToString(sum[:])
}

// Annotator classifies a document and extracts its structured fields.
type Annotator interface {
	Classify(ctx context.Context, in Input) (*models.Classification, error)
	Extract(ctx context.Context, in Input) (*models.Extraction, error)
}

// DocumentTypes is the closed label set the classifier must choose from.
var DocumentTypes = []string{
	"Passport",
	"Driver's License",
	"National ID",
	"Utility Bill",
	"Bank Statement",
	"Tax Return",
	"Employment Letter",
	"Business Registration",
	"Property Deed",
	"Other",
}

// CanonicalDocumentType matches label against DocumentTypes ignoring case and
// surrounding space.
func CanonicalDocumentType(label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, t := range DocumentTypes {
		if strings.EqualFold(t, label) {
			return t, true
		}
	}
	return "", false
}
