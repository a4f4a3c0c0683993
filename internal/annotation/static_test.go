package annotation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"passport_scan.pdf", "Passport"},
		{"Drivers-License.JPG", "Driver's License"},
		{"national_id_front.png", "National ID"},
		{"id.png", "National ID"},
		{"video_guide.pdf", "Other"},
		{"electricity-bill-march.pdf", "Utility Bill"},
		{"bank_statement_q4.pdf", "Bank Statement"},
		{"tax-2024.pdf", "Tax Return"},
		{"employment_letter.docx", "Employment Letter"},
		{"business_registration.pdf", "Business Registration"},
		{"title_deed.pdf", "Property Deed"},
		{"selfie.jpg", "Other"},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFilename(tc.filename))
			_, known := CanonicalDocumentType(tc.want)
			assert.True(t, known)
		})
	}
}

func TestStaticAnnotator(t *testing.T) {
	a := NewStaticAnnotator()

	cls, err := a.Classify(context.Background(), Input{Filename: "passport.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Passport", cls.DocumentType)
	assert.Equal(t, staticConfidence, cls.Confidence)

	cls, err = a.Classify(context.Background(), Input{Filename: "scan.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Other", cls.DocumentType)
	assert.Zero(t, cls.Confidence)

	ext, err := a.Extract(context.Background(), Input{})
	require.NoError(t, err)
	assert.NotNil(t, ext.Images)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", DetectContentType(Input{ContentType: "image/png"}))
	assert.Equal(t, "application/pdf", DetectContentType(Input{Content: []byte("%PDF-1.7\n")}))
	assert.Equal(t, "text/plain", DetectContentType(Input{ContentType: "application/octet-stream", Content: []byte("hello")}))
}

func TestInlineStager(t *testing.T) {
	part, uri, err := InlineStager{}.Stage(context.Background(), Input{ContentType: "image/jpeg", Content: []byte{1, 2}})
	require.NoError(t, err)
	assert.Empty(t, uri)
	assert.NotNil(t, part)
}

func TestInputDigest(t *testing.T) {
	a := Input{Filename: "a.pdf", Content: []byte("same")}
	b := Input{Filename: "b.pdf", Content: []byte("same")}
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)
}
