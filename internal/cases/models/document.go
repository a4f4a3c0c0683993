package models

import (
	"time"

	id "kycflow/pkg/domain"
)

// DocumentStatus is the manual review state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPendingReview DocumentStatus = "Pending Review"
	DocumentStatusUnderReview   DocumentStatus = "Under Review"
	DocumentStatusVerified      DocumentStatus = "Verified"
	DocumentStatusRejected      DocumentStatus = "Rejected"
)

// Classification is the document-type label returned by the annotation model.
type Classification struct {
	DocumentType string  `json:"document_type" yaml:"document_type"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	SourceURI    string  `json:"source_uri,omitempty" yaml:"source_uri,omitempty"`
}

// ImageAnnotation describes a photo found on the document.
type ImageAnnotation struct {
	Type    string `json:"type" yaml:"type"`
	Smiling bool   `json:"smiling" yaml:"smiling"`
	Forged  bool   `json:"forged" yaml:"forged"`
}

// Extraction holds the structured OCR fields. Key names match what the
// reviewer UI renders.
type Extraction struct {
	Name              string            `json:"Name" yaml:"Name"`
	Occupation        string            `json:"Occupation" yaml:"Occupation"`
	FIN               string            `json:"FIN" yaml:"FIN"`
	DateOfApplication string            `json:"date_of_application" yaml:"date_of_application"`
	DateOfIssue       string            `json:"date_of_issue" yaml:"date_of_issue"`
	DateOfExpiry      string            `json:"date_of_expiry" yaml:"date_of_expiry"`
	Confidence        float64           `json:"confidence" yaml:"confidence"`
	Images            []ImageAnnotation `json:"images,omitempty" yaml:"images,omitempty"`
	SourceURI         string            `json:"source_uri,omitempty" yaml:"source_uri,omitempty"`
}

// Document is a file attached to a case.
type Document struct {
	ID             id.DocumentID   `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Type           string          `json:"type" yaml:"type"`
	Size           int64           `json:"size" yaml:"size"`
	UploadedAt     time.Time       `json:"uploadedAt" yaml:"uploadedAt"`
	Status         DocumentStatus  `json:"status" yaml:"status"`
	Category       string          `json:"category" yaml:"category"`
	FilePath       string          `json:"-" yaml:"filePath,omitempty"`
	ContentType    string          `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	OCRProcessed   bool            `json:"ocr_processed" yaml:"ocr_processed"`
	OCRMetadata    *Extraction     `json:"ocr_metadata,omitempty" yaml:"ocr_metadata,omitempty"`
	Classification *Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// Clone deep-copies the optional annotation payloads.
func (d Document) Clone() Document {
	out := d
	if d.OCRMetadata != nil {
		ocr := *d.OCRMetadata
		ocr.Images = append([]ImageAnnotation(nil), d.OCRMetadata.Images...)
		out.OCRMetadata = &ocr
	}
	if d.Classification != nil {
		cls := *d.Classification
		out.Classification = &cls
	}
	return out
}
