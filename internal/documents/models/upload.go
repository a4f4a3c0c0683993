package models

import (
	"io"
	"path/filepath"
	"strings"
	"unicode"

	casemodels "kycflow/internal/cases/models"
	id "kycflow/pkg/domain"
)

// AllowedExtensions are the upload types reviewers can open.
var AllowedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".doc":  {},
	".docx": {},
}

func IsAllowedExtension(filename string) bool {
	_, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

const maxSanitizedLength = 120

// SanitizeFilename keeps the final path element and replaces anything outside
// [A-Za-z0-9._-] with an underscore. The result is never empty and never
// starts with a dot.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	raw := b.String()
	out := strings.TrimLeft(raw, ".")
	switch {
	case out == "":
		out = "upload"
	case out != raw && !strings.Contains(out, "."):
		// ".pdf" names only an extension
		out = "upload." + out
	}
	if len(out) > maxSanitizedLength {
		ext := filepath.Ext(out)
		if len(ext) >= maxSanitizedLength {
			ext = ""
		}
		out = out[:maxSanitizedLength-len(ext)] + ext
	}
	return out
}

// inferenceRules map filename keywords to a (type, category) pair; first
// match wins. "id" only matches as a whole token.
var inferenceRules = []struct {
	keywords []string
	tokens   []string
	docType  string
	category string
}{
	{keywords: []string{"passport", "license"}, tokens: []string{"id"}, docType: "Identity Document", category: "Primary ID"},
	{keywords: []string{"utility", "bill"}, docType: "Address Proof", category: "Address Verification"},
	{keywords: []string{"bank", "statement"}, docType: "Financial Document", category: "Bank Statement"},
	{keywords: []string{"tax"}, docType: "Tax Document", category: "Income Proof"},
	{keywords: []string{"employment", "letter"}, docType: "Employment Verification", category: "Income Proof"},
	{keywords: []string{"business", "registration"}, docType: "Business Document", category: "Business Verification"},
	{keywords: []string{"property", "deed"}, docType: "Property Document", category: "Wealth Verification"},
}

// InferMetadata guesses a document type and category from the filename.
func InferMetadata(filename string) (docType, category string) {
	lower := strings.ToLower(filename)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range inferenceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.docType, rule.category
			}
		}
		for _, tok := range tokens {
			for _, want := range rule.tokens {
				if tok == want {
					return rule.docType, rule.category
				}
			}
		}
	}
	return "Other", "Other"
}

// UploadCommand carries one multipart upload into the service.
type UploadCommand struct {
	CaseID       id.CaseID
	Name         string
	Type         string
	Category     string
	DeclaredSize int64
	ActualSize   int64
	Filename     string
	ContentType  string
	Content      io.Reader
}

// UploadResult is what the caller sees after a successful upload.
type UploadResult struct {
	Document      casemodels.Document
	CaseStatus    casemodels.CaseStatus
	DocumentCount int
}
