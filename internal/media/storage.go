// Package media stores listing images in S3-compatible object storage.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/diewo77/listings-api/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore saves an uploaded image and returns the URI clients load it from.
type ImageStore interface {
	PutListingImage(ctx context.Context, listingID uint, filename string, r io.Reader, size int64, contentType string) (string, error)
}

// allowedTypes maps accepted content types to the extension used for the object name.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionFor returns the object extension for contentType, or false when the
// type is not an accepted image format.
func ExtensionFor(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedTypes[ct]
	return ext, ok
}

// ObjectName builds listings/<id>/<uuid><ext>.
func ObjectName(listingID uint, ext string) string {
	return path.Join("listings", fmt.Sprint(listingID), uuid.NewString()+ext)
}

type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore connects to the endpoint and creates the bucket when missing.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("media: bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("media: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, baseURL: PublicBaseURL(cfg)}, nil
}

// PublicBaseURL is where objects of the bucket are served from.
func PublicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL + "/" + cfg.Bucket
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/" + cfg.Bucket}).String()
}

func (s *MinioStore) PutListingImage(ctx context.Context, listingID uint, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("media: unsupported content type %q", contentType)
	}
	name := ObjectName(listingID, ext)
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": path.Base(filename)},
	})
	if err != nil {
		return "", fmt.Errorf("media: put %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}
