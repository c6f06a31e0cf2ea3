package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
)

// Archiver copies downloaded feed files into object storage.
type Archiver struct {
	client Client
	bucket string
	prefix string
	keep   int
	now    func() time.Time
}

// NewArchiver creates an archiver writing under prefix in bucket and keeping the newest keep objects.
func NewArchiver(client Client, cfg Config) *Archiver {
	return &Archiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		keep:   cfg.Keep,
		now:    time.Now,
	}
}

// ObjectName returns the archive key for fileName at time t.
// Keys sort chronologically, which Prune relies on.
func (a *Archiver) ObjectName(fileName string, t time.Time) string {
	t = t.UTC()
	return path.Join(a.prefix, t.Format("2006/01/02"), fmt.Sprintf("%s-%s", t.Format("20060102T150405Z"), filepath.Base(fileName)))
}

// Archive uploads the local file and prunes old archives. It returns the object key.
func (a *Archiver) Archive(ctx context.Context, localPath string) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	key := a.ObjectName(localPath, a.now())
	_, err = a.client.PutObject(ctx, a.bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: "application/xml"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if err := a.Prune(ctx); err != nil {
		return key, err
	}
	return key, nil
}

// Prune removes the oldest archived feeds beyond the configured keep count.
func (a *Archiver) Prune(ctx context.Context) error {
	if a.keep <= 0 {
		return nil
	}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	if len(keys) <= a.keep {
		return nil
	}

	sort.Strings(keys)
	stale := keys[:len(keys)-a.keep]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, key := range stale {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var errors []string
	for err := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if err.Err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", err.ObjectName, err.Err))
		}
	}
	if len(errors) > 0 {
		return fmt.Errorf("archive prune had %d errors: %v", len(errors), errors)
	}
	return nil
}
