package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/models"
	"github.com/rohits-web03/filebridge/internal/repositories"
	"github.com/rohits-web03/filebridge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type stack struct {
	s3      *testutil.FakeS3
	db      *gorm.DB
	cleanup *repositories.CleanupRepository
	c       *Coordinator
}

// newStack wires the coordinator to real repositories backed by SQLite and
// an in-process S3 endpoint.
func newStack(t *testing.T) *stack {
	fake := testutil.NewFakeS3(t, "files")
	store, err := repositories.NewObjectStore(context.Background(), fake.Config())
	require.NoError(t, err)

	db := testutil.NewDB(t)
	cleanup := repositories.NewCleanupRepository(db, 2*time.Second)
	c := NewCoordinator(store, repositories.NewFileRepository(db, 2*time.Second), cleanup,
		Options{PresignTTL: 15 * time.Minute, PresignWorkers: 4}, zaptest.NewLogger(t))
	return &stack{s3: fake, db: db, cleanup: cleanup, c: c}
}

func TestLifecycleUploadGetDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	content := pngBytes(1024)

	rec, err := s.c.Upload(ctx, UploadInput{Name: "photo.png", ContentType: "image/png", Body: bytes.NewReader(content)})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), rec.Size)
	assert.Equal(t, "png", rec.Format)
	assert.Equal(t, "image/png", rec.FileType)

	body, contentType, ok := s.s3.Object(rec.Key)
	require.True(t, ok)
	assert.Equal(t, content, body)
	assert.Equal(t, "image/png", contentType)

	view, err := s.c.Get(ctx, rec.ID.String())
	require.NoError(t, err)
	require.NotNil(t, view.URL)
	assert.Contains(t, *view.URL, "photo.png")
	assert.Contains(t, *view.URL, "X-Amz-Expires=900")

	require.NoError(t, s.c.Delete(ctx, rec.ID.String()))
	_, _, ok = s.s3.Object(rec.Key)
	assert.False(t, ok)

	_, err = s.c.Get(ctx, rec.ID.String())
	assert.True(t, errors.Is(err, apperr.NotFound))
}

func TestLifecycleEmptyFile(t *testing.T) {
	s := newStack(t)

	rec, err := s.c.Upload(context.Background(), UploadInput{Name: "empty", Body: bytes.NewReader(nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Size)
	assert.Equal(t, "bin", rec.Format)
	assert.Equal(t, "application/octet-stream", rec.FileType)

	body, _, ok := s.s3.Object(rec.Key)
	require.True(t, ok)
	assert.Empty(t, body)
}

func TestLifecycleCompoundExtension(t *testing.T) {
	s := newStack(t)

	rec, err := s.c.Upload(context.Background(), UploadInput{Name: "report.tar.gz", Body: bytes.NewReader([]byte("not really gzip"))})
	require.NoError(t, err)
	assert.Equal(t, "gz", rec.Format)
	assert.Equal(t, "report.tar.gz", rec.FileName)
}

func TestLifecycleListWithMissingObject(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	kept, err := s.c.Upload(ctx, UploadInput{Name: "kept.txt", Body: bytes.NewReader([]byte("a"))})
	require.NoError(t, err)
	lost, err := s.c.Upload(ctx, UploadInput{Name: "lost.txt", Body: bytes.NewReader([]byte("b"))})
	require.NoError(t, err)
	s.s3.RemoveObject(lost.Key)

	views, err := s.c.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	urls := map[string]*string{}
	for _, v := range views {
		urls[v.Record.ID.String()] = v.URL
	}
	assert.NotNil(t, urls[kept.ID.String()])
	assert.Nil(t, urls[lost.ID.String()])
}

func TestLifecycleStorageWriteFailure(t *testing.T) {
	s := newStack(t)
	s.s3.FailNext(http.MethodPut, http.StatusForbidden)

	_, err := s.c.Upload(context.Background(), UploadInput{Name: "a.txt", Body: bytes.NewReader([]byte("a"))})
	assert.Equal(t, apperr.KindStorageWriteFailed, apperr.KindOf(err))

	var n int64
	require.NoError(t, s.db.Model(&models.FileRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLifecycleDeleteQueuesAndReaperFinishes(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	rec, err := s.c.Upload(ctx, UploadInput{Name: "a.txt", Body: bytes.NewReader([]byte("a"))})
	require.NoError(t, err)

	s.s3.FailNext(http.MethodDelete, http.StatusForbidden)
	require.NoError(t, s.c.Delete(ctx, rec.ID.String()))
	_, err = s.c.Get(ctx, rec.ID.String())
	assert.True(t, errors.Is(err, apperr.NotFound))
	_, _, ok := s.s3.Object(rec.Key)
	assert.True(t, ok, "object survives the failed delete")

	s.s3.Recover(http.MethodDelete)
	r := NewReaper(s.cleanup, s.c.store.(BlobDeleter), ReaperOptions{}, zaptest.NewLogger(t))
	r.now = func() time.Time { return time.Now().UTC().Add(time.Second) }
	assert.Equal(t, ReapResult{Deleted: 1}, r.RunOnce(ctx))

	_, _, ok = s.s3.Object(rec.Key)
	assert.False(t, ok)
}

func TestLifecycleMetadataFailureRemovesObject(t *testing.T) {
	s := newStack(t)
	require.NoError(t, s.db.Migrator().DropTable(&models.FileRecord{}))

	_, err := s.c.Upload(context.Background(), UploadInput{Name: "a.txt", Body: bytes.NewReader([]byte("a"))})
	assert.Equal(t, apperr.KindPartialUploadFailure, apperr.KindOf(err))
	assert.Empty(t, s.s3.Keys(), "no orphaned object")
}
