package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/muhammadolammi/resumematch/internal/retry"
)

// ObjectGetter is the subset of *s3.Client used to download objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectStore downloads uploaded résumés from an S3-compatible bucket.
type ObjectStore struct {
	Client   ObjectGetter
	Bucket   string
	Attempts int
	Delay    time.Duration
	MaxBytes int64
	Log      *slog.Logger
}

// NewR2ObjectStore returns a store for a Cloudflare R2 bucket.
func NewR2ObjectStore(cfg aws.Config, accountID, bucket string, maxBytes int64, log *slog.Logger) *ObjectStore {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID))
	})
	return &ObjectStore{
		Client:   client,
		Bucket:   bucket,
		Attempts: 3,
		Delay:    retry.DefaultDelay,
		MaxBytes: maxBytes,
		Log:      log,
	}
}

// Download reads one object. Bodies over MaxBytes are truncated to
// MaxBytes+1 bytes.
func (s *ObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	var body io.Reader = out.Body
	if s.MaxBytes > 0 {
		body = io.LimitReader(out.Body, s.MaxBytes+1)
	}
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errEmptyBody
	}
	return buf.Bytes(), nil
}

// FetchObject downloads key with retries and falls back to the placeholder
// document when every attempt fails.
func (s *ObjectStore) FetchObject(ctx context.Context, key string) []byte {
	attempts := s.Attempts
	if attempts < 1 {
		attempts = 1
	}
	data, err := retry.Do(ctx, attempts, s.Delay, func() ([]byte, error) {
		return s.Download(ctx, key)
	})
	if err != nil {
		log := s.Log
		if log == nil {
			log = slog.Default()
		}
		if errors.Is(err, context.Canceled) {
			log.Warn("object fetch cancelled, using placeholder", "key", key)
		} else {
			log.Warn("object fetch failed, using placeholder", "key", key, "error", err)
		}
		return Placeholder()
	}
	return data
}
