package annotation

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"

	"kycflow/internal/cases/models"
)

const staticConfidence = 0.5

// staticRules map filename keywords to labels, first match wins. Short
// keywords must be a whole token so "video.pdf" is not an ID.
var staticRules = []struct {
	label    string
	keywords []string
	tokens   []string
}{
	{label: "Passport", keywords: []string{"passport"}},
	{label: "Driver's License", keywords: []string{"license", "licence"}},
	{label: "National ID", keywords: []string{"nric", "identity"}, tokens: []string{"id"}},
	{label: "Utility Bill", keywords: []string{"utility", "bill"}},
	{label: "Bank Statement", keywords: []string{"bank", "statement"}},
	{label: "Tax Return", keywords: []string{"tax"}},
	{label: "Employment Letter", keywords: []string{"employment", "letter", "payslip"}},
	{label: "Business Registration", keywords: []string{"business", "registration"}},
	{label: "Property Deed", keywords: []string{"property", "deed"}},
}

// StaticAnnotator labels files from their names and returns an empty
// extraction. It never fails.
type StaticAnnotator struct{}

func NewStaticAnnotator() StaticAnnotator { return StaticAnnotator{} }

func (StaticAnnotator) Classify(_ context.Context, in Input) (*models.Classification, error) {
	label := ClassifyFilename(in.Filename)
	confidence := staticConfidence
	if label == "Other" {
		confidence = 0
	}
	return &models.Classification{DocumentType: label, Confidence: confidence}, nil
}

func (StaticAnnotator) Extract(_ context.Context, _ Input) (*models.Extraction, error) {
	return &models.Extraction{Images: []models.ImageAnnotation{}}, nil
}

// ClassifyFilename returns the DocumentTypes label suggested by name.
func ClassifyFilename(name string) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	tokens := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range staticRules {
		for _, kw := range rule.keywords {
			if strings.Contains(base, kw) {
				return rule.label
			}
		}
		for _, tok := range tokens {
			for _, want := range rule.tokens {
				if tok == want {
					return rule.label
				}
			}
		}
	}
	return "Other"
}
