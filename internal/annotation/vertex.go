package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"kycflow/internal/cases/models"
	"kycflow/internal/platform/config"
	"kycflow/pkg/requestcontext"
)

const providerVertex = "vertex"

const classifierSystemPrompt = "You are a KYC document classifier. You look at one identity, address, income or wealth document and name its type. You must answer with a single JSON object."

const extractorSystemPrompt = "You are a KYC document reader. You transcribe printed fields from identity and supporting documents exactly as they appear and inspect any photos on the document. You must answer with JSON matching the provided schema."

const extractPrompt = `Extract the following from the attached document:

- Name: the full name of the person the document belongs to.
- Occupation: the stated occupation or job title, empty if absent.
- FIN: the identification number (passport number, national ID, FIN or account number), empty if absent.
- date_of_application, date_of_issue, date_of_expiry: dates in YYYY-MM-DD, empty if absent.
- confidence: your confidence in the extraction between 0 and 1.
- images: one entry per photo of a person on the document, with its type (e.g. "portrait"), whether the person is smiling, and whether the photo shows signs of tampering or forgery.

Copy values verbatim. Do not guess values that are not printed on the document.`

// classifyPrompt lists the allowed labels so the answer can be checked against
// DocumentTypes.
var classifyPrompt = fmt.Sprintf(`Classify the attached document. Choose exactly one label from this list:
%s

Respond with a JSON object of the form {"document_type": "<label>", "confidence": <number between 0 and 1>}.
If the document matches none of the labels, use "Other".`, "- "+strings.Join(DocumentTypes, "\n- "))

// extractionSchema constrains the extractor output; keys match models.Extraction.
var extractionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"Name":                {Type: genai.TypeString, Description: "Full name of the document holder"},
		"Occupation":          {Type: genai.TypeString, Description: "Occupation or job title"},
		"FIN":                 {Type: genai.TypeString, Description: "Identification number"},
		"date_of_application": {Type: genai.TypeString, Description: "YYYY-MM-DD"},
		"date_of_issue":       {Type: genai.TypeString, Description: "YYYY-MM-DD"},
		"date_of_expiry":      {Type: genai.TypeString, Description: "YYYY-MM-DD"},
		"confidence":          {Type: genai.TypeNumber, Description: "0 to 1"},
		"images": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type":    {Type: genai.TypeString},
					"smiling": {Type: genai.TypeBoolean},
					"forged":  {Type: genai.TypeBoolean},
				},
				Required: []string{"type", "smiling", "forged"},
			},
		},
	},
	Required: []string{"Name", "Occupation", "FIN", "date_of_application", "date_of_issue", "date_of_expiry", "confidence"},
}

// generator is the slice of *genai.GenerativeModel the annotator calls.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// VertexAnnotator runs classification and extraction on Gemini. Each call
// stages the file first; no retries or deadlines beyond ctx.
type VertexAnnotator struct {
	classifier generator
	extractor  generator
	stager     Stager
	logger     *slog.Logger
}

// NewVertexClient opens the Vertex AI client for the configured project and
// region. Callers own Close.
func NewVertexClient(ctx context.Context, cfg config.AnnotationConfig) (*genai.Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex client: project and region are required")
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return client, nil
}

// NewVertexAnnotator configures the classifier and extractor models on client.
func NewVertexAnnotator(client *genai.Client, model string, stager Stager, logger *slog.Logger) *VertexAnnotator {
	classifier := client.GenerativeModel(model)
	classifier.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classifierSystemPrompt)},
	}
	classifier.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}

	extractor := client.GenerativeModel(model)
	extractor.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractorSystemPrompt)},
	}
	extractor.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractionSchema,
		Temperature:      genai.Ptr[float32](0),
	}

	return newVertexAnnotator(classifier, extractor, stager, logger)
}

func newVertexAnnotator(classifier, extractor generator, stager Stager, logger *slog.Logger) *VertexAnnotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &VertexAnnotator{classifier: classifier, extractor: extractor, stager: stager, logger: logger}
}

type classificationPayload struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

func (v *VertexAnnotator) Classify(ctx context.Context, in Input) (*models.Classification, error) {
	const op = "classify"
	raw, sourceURI, err := v.generate(ctx, op, v.classifier, in, classifyPrompt)
	if err != nil {
		return nil, err
	}

	var payload classificationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, NewProviderError(ErrorBadData, providerVertex, op, "malformed classification", err)
	}
	label, ok := CanonicalDocumentType(payload.DocumentType)
	if !ok {
		return nil, NewProviderError(ErrorBadData, providerVertex, op, fmt.Sprintf("unknown document type %q", payload.DocumentType), nil)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return nil, NewProviderError(ErrorBadData, providerVertex, op, "confidence out of range", nil)
	}
	return &models.Classification{
		DocumentType: label,
		Confidence:   payload.Confidence,
		SourceURI:    sourceURI,
	}, nil
}

func (v *VertexAnnotator) Extract(ctx context.Context, in Input) (*models.Extraction, error) {
	const op = "extract"
	raw, sourceURI, err := v.generate(ctx, op, v.extractor, in, extractPrompt)
	if err != nil {
		return nil, err
	}

	var out models.Extraction
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, NewProviderError(ErrorBadData, providerVertex, op, "malformed extraction", err)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return nil, NewProviderError(ErrorBadData, providerVertex, op, "confidence out of range", nil)
	}
	out.SourceURI = sourceURI
	return &out, nil
}

// generate stages the file and returns the model's text answer with code
// fences stripped.
func (v *VertexAnnotator) generate(ctx context.Context, op string, model generator, in Input, prompt string) (string, string, error) {
	part, sourceURI, err := v.stager.Stage(ctx, in)
	if err != nil {
		return "", "", NewProviderError(ErrorProviderOutage, providerVertex, op, "staging failed", err)
	}

	resp, err := model.GenerateContent(ctx, part, genai.Text(prompt))
	if err != nil {
		v.logger.WarnContext(ctx, "vertex call failed",
			"request_id", requestcontext.RequestID(ctx),
			"operation", op,
			"document_id", in.DocumentID.String(),
			"error", err,
		)
		return "", "", NewProviderError(ErrorProviderOutage, providerVertex, op, "model call failed", err)
	}

	raw := responseText(resp)
	if raw == "" {
		return "", "", NewProviderError(ErrorBadData, providerVertex, op, "empty model response", nil)
	}
	return raw, sourceURI, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	clean := strings.TrimSpace(b.String())
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
