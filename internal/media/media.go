package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/oggyb/vidhub/internal/config"
	"github.com/oggyb/vidhub/internal/metrics"
)

// Remover deletes a stored asset by the reference kept on a record.
type Remover interface {
	Remove(ctx context.Context, ref string) error
}

// Noop is used when no object store is configured.
type Noop struct{}

func (Noop) Remove(context.Context, string) error { return nil }

// MinioRemover deletes objects from one bucket of an S3-compatible store.
type MinioRemover struct {
	client *minio.Client
	bucket string
}

// New returns a MinIO remover, or Noop when MEDIA_ENDPOINT is unset.
func New(cfg *config.Config) (Remover, error) {
	if cfg.Media.Endpoint == "" {
		return Noop{}, nil
	}
	client, err := minio.New(cfg.Media.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.AccessKey, cfg.Media.SecretKey, ""),
		Secure: cfg.Media.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioRemover{client: client, bucket: cfg.Media.Bucket}, nil
}

func (m *MinioRemover) Remove(ctx context.Context, ref string) error {
	key, err := ObjectKey(ref, m.bucket)
	if err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// ObjectKey derives the object key from a stored media URL. Both
// path-style ("http://host/<bucket>/a/b.png") and bare keys ("a/b.png")
// are accepted.
func ObjectKey(ref, bucket string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("empty media reference")
	}

	path := ref
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		path = u.Path
	}
	path = strings.TrimPrefix(path, "/")
	if bucket != "" {
		path = strings.TrimPrefix(path, bucket+"/")
	}
	if path == "" {
		return "", fmt.Errorf("media reference %q has no object key", ref)
	}
	return path, nil
}

// Discard removes refs after the owning record changed. Failures are logged
// and counted but never returned: the record mutation has already committed.
func Discard(ctx context.Context, r Remover, log *slog.Logger, refs ...string) {
	if r == nil {
		return
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if err := r.Remove(ctx, ref); err != nil {
			metrics.MediaRemovalFailures.Inc()
			if log != nil {
				log.Warn("failed to remove superseded media", "ref", ref, "err", err)
			}
		}
	}
}
