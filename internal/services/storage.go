package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"divelink/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService wraps the object store holding uploaded images. Keys are
// opaque uuids below a caller-chosen prefix; downloads go through
// presigned URLs.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(conf config.MinIO) (*StorageService, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.User, conf.Pass, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("bucket creation: %w", err)
		}
	}

	return &StorageService{client: client, bucket: conf.Bucket}, nil
}

// Upload stores one multipart file and returns its object key plus a
// presigned download URL.
func (s *StorageService) Upload(ctx context.Context, prefix string, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, file, header.Size,
		minio.PutObjectOptions{ContentType: header.Header.Get("Content-Type")})
	if err != nil {
		return "", "", fmt.Errorf("upload: %w", err)
	}

	url, err := s.DownloadURL(ctx, key)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// DownloadURL returns a presigned GET URL for an object key.
func (s *StorageService) DownloadURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u.String(), nil
}

// Delete removes one object.
func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
