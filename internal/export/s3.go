package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/nomadcloset/internal/config"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads CSV exports to a bucket.
type Archiver struct {
	client s3Client
	bucket string
	now    func() time.Time
}

// NewArchiver returns nil when cfg does not carry a bucket and credentials.
func NewArchiver(cfg config.S3Config) *Archiver {
	if !cfg.Enabled() {
		return nil
	}
	return &Archiver{client: newS3Client(cfg), bucket: cfg.Bucket, now: time.Now}
}

func newS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Key is the object key for an export of userID taken at t.
func Key(userID string, t time.Time) string {
	return fmt.Sprintf("actions/%s/%s-%s", Pseudonym(userID), t.UTC().Format("2006-01-02T150405Z"), FileName)
}

// Upload stores data under a timestamped key and returns the key.
func (a *Archiver) Upload(ctx context.Context, userID string, data []byte) (string, error) {
	key := Key(userID, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return key, nil
}
