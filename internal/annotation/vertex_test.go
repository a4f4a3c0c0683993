package annotation

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/suite"
)

type fakeGenerator struct {
	text  string
	err   error
	parts []genai.Part
}

func (g *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	g.parts = parts
	if g.err != nil {
		return nil, g.err
	}
	if g.text == "" {
		return &genai.GenerateContentResponse{}, nil
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(g.text)}},
		}},
	}, nil
}

type fakeStager struct {
	err   error
	calls int
}

func (s *fakeStager) Stage(_ context.Context, in Input) (genai.Part, string, error) {
	s.calls++
	if s.err != nil {
		return nil, "", s.err
	}
	return genai.FileData{MIMEType: "application/pdf", FileURI: "https://signed.example/" + in.Filename}, "gs://staging/" + in.Filename, nil
}

type VertexAnnotatorSuite struct {
	suite.Suite
	classifier *fakeGenerator
	extractor  *fakeGenerator
	stager     *fakeStager
	annotator  *VertexAnnotator
	input      Input
}

func TestVertexAnnotatorSuite(t *testing.T) {
	suite.Run(t, new(VertexAnnotatorSuite))
}

func (s *VertexAnnotatorSuite) SetupTest() {
	s.classifier = &fakeGenerator{}
	s.extractor = &fakeGenerator{}
	s.stager = &fakeStager{}
	s.annotator = newVertexAnnotator(s.classifier, s.extractor, s.stager, nil)
	s.input = Input{CaseID: "C-1", DocumentID: "DOC-1", Filename: "passport.pdf", Content: []byte("%PDF-1.4")}
}

func (s *VertexAnnotatorSuite) TestClassify() {
	s.Run("accepts a listed label", func() {
		s.classifier.text = `{"document_type": "passport", "confidence": 0.93}`
		got, err := s.annotator.Classify(context.Background(), s.input)
		s.Require().NoError(err)
		s.Equal("Passport", got.DocumentType)
		s.Equal(0.93, got.Confidence)
		s.Equal("gs://staging/passport.pdf", got.SourceURI)

		s.Require().Len(s.classifier.parts, 2)
		s.IsType(genai.FileData{}, s.classifier.parts[0])
	})

	s.Run("strips markdown fences", func() {
		s.classifier.text = "```json\n{\"document_type\": \"Utility Bill\", \"confidence\": 1}\n```"
		got, err := s.annotator.Classify(context.Background(), s.input)
		s.Require().NoError(err)
		s.Equal("Utility Bill", got.DocumentType)
	})

	s.Run("rejects labels outside the list", func() {
		s.classifier.text = `{"document_type": "Birth Certificate", "confidence": 0.8}`
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Require().Error(err)
		s.Equal(ErrorBadData, CategoryOf(err))
	})

	s.Run("rejects malformed output", func() {
		s.classifier.text = `Passport`
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Equal(ErrorBadData, CategoryOf(err))
	})

	s.Run("rejects out of range confidence", func() {
		s.classifier.text = `{"document_type": "Passport", "confidence": 7}`
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Equal(ErrorBadData, CategoryOf(err))
	})

	s.Run("empty candidate list is bad data", func() {
		s.classifier.text = ""
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Equal(ErrorBadData, CategoryOf(err))
	})

	s.Run("model failure is an outage", func() {
		upstream := errors.New("503 unavailable")
		s.classifier.err = upstream
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Equal(ErrorProviderOutage, CategoryOf(err))
		s.ErrorIs(err, upstream)
		s.classifier.err = nil
	})

	s.Run("staging failure is an outage", func() {
		s.stager.err = errors.New("bucket gone")
		_, err := s.annotator.Classify(context.Background(), s.input)
		s.Equal(ErrorProviderOutage, CategoryOf(err))
		s.stager.err = nil
	})
}

func (s *VertexAnnotatorSuite) TestExtract() {
	s.Run("decodes schema fields", func() {
		s.extractor.text = `{
			"Name": "Michael Chen",
			"Occupation": "Managing Director",
			"FIN": "G1234567N",
			"date_of_application": "",
			"date_of_issue": "2019-04-02",
			"date_of_expiry": "2029-04-01",
			"confidence": 0.88,
			"images": [{"type": "portrait", "smiling": false, "forged": false}]
		}`
		got, err := s.annotator.Extract(context.Background(), s.input)
		s.Require().NoError(err)
		s.Equal("Michael Chen", got.Name)
		s.Equal("G1234567N", got.FIN)
		s.Equal("2029-04-01", got.DateOfExpiry)
		s.Require().Len(got.Images, 1)
		s.Equal("portrait", got.Images[0].Type)
		s.Equal("gs://staging/passport.pdf", got.SourceURI)
	})

	s.Run("malformed extraction is bad data", func() {
		s.extractor.text = `{"Name": 12}`
		_, err := s.annotator.Extract(context.Background(), s.input)
		s.Equal(ErrorBadData, CategoryOf(err))
	})
}

func TestExtractionSchemaMatchesModel(t *testing.T) {
	for _, key := range extractionSchema.Required {
		if _, ok := extractionSchema.Properties[key]; !ok {
			t.Fatalf("required key %q missing from schema properties", key)
		}
	}
}
