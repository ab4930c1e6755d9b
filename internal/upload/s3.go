package upload

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/config"
)

// S3 uploads images to an S3 compatible bucket (MinIO, AWS, R2...).
type S3 struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ domain.UploadGateway = (*S3)(nil)

// NewS3 fails fast when the bucket does not exist.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	const op = "upload/NewS3"

	endpoint, secure := splitEndpoint(cfg.Endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// splitEndpoint strips the scheme minio-go does not accept and derives TLS from it.
func splitEndpoint(endpoint string) (host string, secure bool) {
	host = endpoint
	secure = strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		host = u.Host
		secure = u.Scheme == "https"
	}
	return host, secure
}

func (s *S3) Upload(ctx context.Context, att domain.Attachment) (string, error) {
	key := objectKey(att)
	size := att.Size
	if size <= 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, att.Body, size, minio.PutObjectOptions{
		ContentType: att.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload/S3: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
