package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/domain/storage"
)

var _ storage.Presigner = (*S3Presigner)(nil)

// S3Presigner issues presigned PUT URLs for the document bucket.
type S3Presigner struct {
	client *s3.PresignClient
	bucket string
	expiry time.Duration
}

func NewS3Presigner(ctx context.Context, cfg config.S3) (*S3Presigner, error) {
	if !cfg.Configured() {
		return nil, errors.New("s3: bucket and region are required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	// static keys win; otherwise the default chain (env, shared config, IAM role)
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		expiry: time.Duration(cfg.PresignExpireSecs) * time.Second,
	}, nil
}

func (p *S3Presigner) Name() string      { return "s3" }
func (p *S3Presigner) Placeholder() bool { return false }

func (p *S3Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	req, err := p.client.PresignPutObject(ctx, in, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", fmt.Errorf("s3: presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (p *S3Presigner) String() string { return fmt.Sprintf("s3(%s)", p.bucket) }
