package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joseph-ayodele/budget-pipeline/internal/common"
)

// Metadata describes a stored object.
type Metadata struct {
	Size        int64
	ContentType string
}

// BlobStore is the byte-addressable object store contract. Keys are opaque
// strings chosen by the caller (e.g. receipts/{user}/{receipt}.jpg,
// exports/{user}/{job}.csv).
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Head(ctx context.Context, key string) (Metadata, error)
	PresignGet(ctx context.Context, key string) (string, error)
	PresignPut(ctx context.Context, key, contentType string) (string, error)
}

// S3Store implements BlobStore on an S3-compatible endpoint.
type S3Store struct {
	client         *s3.Client
	presigner      *s3.PresignClient
	bucket         string
	publicEndpoint string
	presignExpiry  time.Duration
	logger         *slog.Logger
}

func NewS3Store(ctx context.Context, cfg common.S3Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Store{
		client:         client,
		presigner:      s3.NewPresignClient(client),
		bucket:         cfg.Bucket,
		publicEndpoint: cfg.PublicEndpoint,
		presignExpiry:  expiry,
		logger:         logger,
	}, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	s.logger.Debug("storage.put", "key", key, "bytes", len(data))
	return nil
}

func (s *S3Store) Head(ctx context.Context, key string) (Metadata, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("head object %s: %w", key, err)
	}
	md := Metadata{}
	if out.ContentLength != nil {
		md.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		md.ContentType = *out.ContentType
	}
	return md, nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return s.rewritePublic(req.URL), nil
}

func (s *S3Store) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	req, err := s.presigner.PresignPutObject(ctx, in, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return s.rewritePublic(req.URL), nil
}

// rewritePublic swaps the internal endpoint's scheme/host for the public
// one, so presigned URLs handed to clients resolve from outside the
// deployment network.
func (s *S3Store) rewritePublic(raw string) string {
	if s.publicEndpoint == "" {
		return raw
	}
	target, err := url.Parse(s.publicEndpoint)
	if err != nil {
		return raw
	}
	src, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target.Scheme != "" {
		src.Scheme = target.Scheme
	}
	if target.Host != "" {
		src.Host = target.Host
	}
	return src.String()
}
