package annotation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"cloud.google.com/go/vertexai/genai"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/googleapi"
)

// Stager makes a file readable by the model and returns the part to send
// along with a stable URI recorded on the result.
type Stager interface {
	Stage(ctx context.Context, in Input) (genai.Part, string, error)
}

// GCSStager uploads files to a staging bucket and hands the model a V4 signed
// URL. Objects are keyed by case and document so both calls for one upload
// share a single object.
type GCSStager struct {
	bucket     *storage.BucketHandle
	bucketName string
	ttl        time.Duration
}

func NewGCSStager(client *storage.Client, bucket string, ttl time.Duration) *GCSStager {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &GCSStager{bucket: client.Bucket(bucket), bucketName: bucket, ttl: ttl}
}

func (s *GCSStager) Stage(ctx context.Context, in Input) (genai.Part, string, error) {
	object := path.Join("kyc", in.CaseID.String(), in.DocumentID.String(), path.Base(in.Filename))
	contentType := DetectContentType(in)

	if err := s.write(ctx, object, contentType, in.Content); err != nil {
		return nil, "", err
	}

	signed, err := s.bucket.SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(s.ttl),
	})
	if err != nil {
		return nil, "", fmt.Errorf("sign staged object %s: %w", object, err)
	}
	return genai.FileData{MIMEType: contentType, FileURI: signed}, fmt.Sprintf("gs://%s/%s", s.bucketName, object), nil
}

// write creates the object only if it does not exist; an existing object is
// the same bytes staged by an earlier call.
func (s *GCSStager) write(ctx context.Context, object, contentType string, data []byte) error {
	w := s.bucket.Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		if isPreconditionFailed(err) {
			return nil
		}
		return fmt.Errorf("write staged object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return nil
		}
		return fmt.Errorf("finalize staged object %s: %w", object, err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

// InlineStager sends the bytes with the request. Used when no staging bucket
// is configured.
type InlineStager struct{}

func (InlineStager) Stage(_ context.Context, in Input) (genai.Part, string, error) {
	return genai.Blob{MIMEType: DetectContentType(in), Data: in.Content}, "", nil
}

// DetectContentType trusts a specific declared type and sniffs otherwise.
// Parameters such as charset are dropped.
func DetectContentType(in Input) string {
	ct := in.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(in.Content).String()
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
