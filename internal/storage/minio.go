package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps images in an S3-compatible bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string

	bucketOnce sync.Once
	bucketErr  error
}

func NewMinioStore(ctx context.Context, cfg config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

// ensureBucket creates the bucket on first use.
func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketErr = fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.bucketErr = fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
			return
		}
		logger.Info("Created media bucket", []logger.Field{logger.String("bucket", s.bucket)})
	})
	return s.bucketErr
}

func (s *MinioStore) Save(ctx context.Context, dir, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := ObjectName(dir, filename)
	if err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = ContentTypeFor(name)
	}
	if size <= 0 {
		size = -1
	}
	_, err = s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}

func (s *MinioStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", p, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return obj, nil
}

func (s *MinioStore) Delete(ctx context.Context, p string) error {
	key, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

func (s *MinioStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return joinURL(s.publicURL, strings.TrimPrefix(p, "/"))
}
