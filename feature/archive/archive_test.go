package archive

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"sublime-migrate/core/output"
	"sublime-migrate/core/storage"
	"sublime-migrate/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var cfg = storage.Config{Bucket: "migrations", Prefix: "/runs/", Region: "us-east-1"}

func TestKey(t *testing.T) {
	assert.Equal(t, "runs/abc.json", New(nil, cfg).Key("abc"))
	assert.Equal(t, "abc.json", New(nil, storage.Config{Bucket: "b"}).Key("abc"))
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	rec := Record{RunID: "abc", Command: "migrate actions", Result: output.Succeeded("done", nil, "")}

	t.Run("CreatesMissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "migrations").Return(false, nil)
		client.On("MakeBucket", ctx, "migrations", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

		var uploaded []byte
		client.On("PutObject", ctx, "migrations", "runs/abc.json", mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.UserMetadata["command"] == "migrate actions"
		})).Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).Return(minio.UploadInfo{}, nil)

		key, err := New(client, cfg).Save(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, "runs/abc.json", key)

		var got Record
		require.NoError(t, json.Unmarshal(uploaded, &got))
		assert.Equal(t, "abc", got.RunID)
		assert.Equal(t, "done", got.Result.Message)
		client.AssertExpectations(t)
	})

	t.Run("BucketCheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "migrations").Return(false, assert.AnError)

		_, err := New(client, cfg).Save(ctx, rec)
		assert.ErrorIs(t, err, assert.AnError)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UploadFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "migrations").Return(true, nil)
		client.On("PutObject", ctx, "migrations", "runs/abc.json", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, assert.AnError)

		_, err := New(client, cfg).Save(ctx, rec)
		assert.ErrorContains(t, err, "failed to upload runs/abc.json")
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	body := `{"run_id":"abc","command":"migrate all","result":{"success":true,"message":"Migration Complete"}}`
	client.On("GetObject", ctx, "migrations", "runs/abc.json", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader(body)), nil)
	client.On("GetObject", ctx, "migrations", "runs/gone.json", minio.GetObjectOptions{}).
		Return(nil, assert.AnError)

	a := New(client, cfg)
	rec, err := a.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "migrate all", rec.Command)
	assert.True(t, rec.Result.Success)

	_, err = a.Load(ctx, "gone")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	objects := make(chan minio.ObjectInfo, 4)
	objects <- minio.ObjectInfo{Key: "runs/old.json", Size: 10, LastModified: now.Add(-time.Hour)}
	objects <- minio.ObjectInfo{Key: "runs/new.json", Size: 20, LastModified: now}
	objects <- minio.ObjectInfo{Key: "runs/notes.txt"}
	objects <- minio.ObjectInfo{Key: "runs/nested/x.json"}
	close(objects)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "migrations", minio.ListObjectsOptions{Prefix: "runs/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(objects))

	entries, err := New(client, cfg).List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new", entries[0].RunID)
	assert.Equal(t, "old", entries[1].RunID)

	t.Run("ListingError", func(t *testing.T) {
		failing := make(chan minio.ObjectInfo, 1)
		failing <- minio.ObjectInfo{Err: assert.AnError}
		close(failing)

		client := new(mocks.Client)
		client.On("ListObjects", ctx, "migrations", mock.Anything).Return((<-chan minio.ObjectInfo)(failing))

		_, err := New(client, cfg).List(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
