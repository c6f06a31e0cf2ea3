package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *mockClient) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *mockClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, key, r, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.Called(ctx, bucket, opts).Get(0).(<-chan minio.ObjectInfo)
}

func (m *mockClient) RemoveObjects(ctx context.Context, bucket string, objects <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	args := m.Called(ctx, bucket, objects, opts)
	out := make(chan minio.RemoveObjectError)
	close(out)
	if ch, ok := args.Get(0).(<-chan minio.RemoveObjectError); ok {
		return ch
	}
	return out
}

func writeFeed(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "TobaccoData.xml")
	require.NoError(t, os.WriteFile(p, []byte("<TobaccoData/>"), 0o600))
	return p
}

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestArchiver_ObjectName(t *testing.T) {
	a := NewArchiver(nil, Config{Prefix: "feeds"})
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, "feeds/2026/03/04/20260304T050607Z-TobaccoData.xml", a.ObjectName("/tmp/x/TobaccoData.xml", ts))
}

func TestArchiver_Archive(t *testing.T) {
	ctx := context.Background()
	feed := writeFeed(t)

	client := new(mockClient)
	client.On("BucketExists", mock.Anything, "feeds").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "feeds", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "feeds", "feeds/2026/03/04/20260304T050607Z-TobaccoData.xml", mock.Anything, int64(14), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "feeds", mock.Anything).
		Return(listing("feeds/2026/03/03/a", "feeds/2026/03/04/b", "feeds/2026/03/02/c"))

	var removed []string
	client.On("RemoveObjects", mock.Anything, "feeds", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	a := NewArchiver(client, Config{Bucket: "feeds", Prefix: "feeds", Keep: 2})
	a.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	key, err := a.Archive(ctx, feed)
	require.NoError(t, err)
	assert.Equal(t, "feeds/2026/03/04/20260304T050607Z-TobaccoData.xml", key)
	assert.Equal(t, []string{"feeds/2026/03/02/c"}, removed)
	client.AssertExpectations(t)
}

func TestArchiver_UploadError(t *testing.T) {
	client := new(mockClient)
	client.On("BucketExists", mock.Anything, "feeds").Return(true, nil)
	client.On("PutObject", mock.Anything, "feeds", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("s3 down"))

	a := NewArchiver(client, Config{Bucket: "feeds", Prefix: "feeds", Keep: 2})

	_, err := a.Archive(context.Background(), writeFeed(t))
	assert.ErrorContains(t, err, "s3 down")
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiver_PruneDisabled(t *testing.T) {
	client := new(mockClient)
	a := NewArchiver(client, Config{Bucket: "feeds", Prefix: "feeds", Keep: 0})

	assert.NoError(t, a.Prune(context.Background()))
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}
