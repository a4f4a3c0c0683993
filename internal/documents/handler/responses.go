package handler

import (
	casemodels "kycflow/internal/cases/models"
	"kycflow/internal/documents/models"
	id "kycflow/pkg/domain"
)

type UploadResponse struct {
	OK            bool                  `json:"ok"`
	Document      casemodels.Document   `json:"document"`
	CaseStatus    casemodels.CaseStatus `json:"caseStatus"`
	DocumentCount int                   `json:"documentCount"`
}

func FromUpload(res *models.UploadResult) UploadResponse {
	return UploadResponse{
		OK:            true,
		Document:      res.Document,
		CaseStatus:    res.CaseStatus,
		DocumentCount: res.DocumentCount,
	}
}

type ListResponse struct {
	OK        bool                  `json:"ok"`
	Documents []casemodels.Document `json:"documents"`
}

type DeleteResponse struct {
	OK bool          `json:"ok"`
	ID id.DocumentID `json:"id"`
}

// OCRResponse carries both annotation payloads. Missing payloads serialize as null.
type OCRResponse struct {
	OK             bool                       `json:"ok"`
	DocumentID     id.DocumentID              `json:"documentId"`
	OCRProcessed   bool                       `json:"ocr_processed"`
	OCRMetadata    *casemodels.Extraction     `json:"ocr_metadata"`
	Classification *casemodels.Classification `json:"classification"`
}

func FromDocument(doc *casemodels.Document) OCRResponse {
	return OCRResponse{
		OK:             true,
		DocumentID:     doc.ID,
		OCRProcessed:   doc.OCRProcessed,
		OCRMetadata:    doc.OCRMetadata,
		Classification: doc.Classification,
	}
}
