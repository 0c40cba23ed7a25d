package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/models"
	"github.com/rohits-web03/filebridge/internal/repositories"
	"github.com/rohits-web03/filebridge/internal/sniff"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxFileNameLen = 255
	maxFileTypeLen = 100
)

// ObjectStore is the blob side of a file.
type ObjectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// FileStore is the metadata side of a file.
type FileStore interface {
	Create(ctx context.Context, rec *models.FileRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error)
	ListByBucket(ctx context.Context, bucket string) ([]models.FileRecord, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// DeletionQueue takes over blob deletions that failed inline.
type DeletionQueue interface {
	Enqueue(ctx context.Context, bucket, key, reason string, cause error) error
}

type Options struct {
	PresignTTL     time.Duration
	PresignWorkers int
	// AllowedExtensions restricts uploads by sniffed extension. Empty allows
	// everything.
	AllowedExtensions []string
}

// Coordinator keeps objects and their metadata records consistent. Within
// one call every step waits for the previous one; nothing is cached between
// calls.
type Coordinator struct {
	store ObjectStore
	files FileStore
	queue DeletionQueue
	opts  Options
	log   *zap.Logger
}

func NewCoordinator(store ObjectStore, files FileStore, queue DeletionQueue, opts Options, log *zap.Logger) *Coordinator {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}
	if opts.PresignWorkers < 1 {
		opts.PresignWorkers = 1
	}
	return &Coordinator{
		store: store,
		files: files,
		queue: queue,
		opts:  opts,
		log:   log.Named("coordinator"),
	}
}

type UploadInput struct {
	Name        string
	ContentType string
	Body        io.ReadSeeker
}

// FileView is a record joined with a download URL. URL is nil when the
// object is missing or could not be signed.
type FileView struct {
	Record models.FileRecord
	URL    *string
}

// Upload stores the content and then its metadata. If the metadata write
// fails the object is deleted again (or queued for deletion) and a
// PARTIAL_UPLOAD_FAILURE is returned.
func (c *Coordinator) Upload(ctx context.Context, in UploadInput) (*models.FileRecord, error) {
	if err := validateName(in.Name); err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	info, err := sniff.Sniff(in.Body, in.Name, declaredType(in.ContentType))
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "Failed to read uploaded file", err)
	}

	if !c.extensionAllowed(info.Extension) {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return nil, apperr.New(apperr.KindInvalidInput,
			fmt.Sprintf("File type %q is not allowed", info.Extension), nil)
	}

	id := uuid.New()
	key := ObjectKey(id, in.Name)
	log := c.log.With(zap.String("file_id", id.String()), zap.String("key", key))

	if err := c.store.Put(ctx, key, in.Body, info.Size, info.MIMEType); err != nil {
		uploadsTotal.WithLabelValues("storage_failed").Inc()
		log.Error("failed to store object", zap.Error(err))
		return nil, withKind(err, apperr.KindStorageWriteFailed, "Failed to store file")
	}

	rec := &models.FileRecord{
		ID:       id,
		FileName: in.Name,
		Key:      key,
		Bucket:   c.store.Bucket(),
		Size:     info.Size,
		Format:   info.Extension,
		FileType: info.MIMEType,
	}
	if err := c.files.Create(ctx, rec); err != nil {
		uploadsTotal.WithLabelValues("metadata_failed").Inc()
		return nil, c.abortUpload(ctx, log, key, err)
	}

	uploadsTotal.WithLabelValues("ok").Inc()
	uploadSizeBytes.Observe(float64(info.Size))
	log.Info("file uploaded",
		zap.String("file_name", rec.FileName),
		zap.Int64("size", rec.Size),
		zap.String("file_type", rec.FileType),
		zap.Bool("content_detected", info.Detected),
	)
	return rec, nil
}

// abortUpload removes an object whose record could not be written.
func (c *Coordinator) abortUpload(ctx context.Context, log *zap.Logger, key string, cause error) error {
	// The request may already be cancelled; cleanup must still run.
	ctx = context.WithoutCancel(ctx)
	log.Error("failed to save metadata after storing object", zap.Error(cause))

	delErr := c.store.Delete(ctx, key)
	if delErr == nil {
		log.Warn("stored object removed after metadata failure")
		return apperr.New(apperr.KindPartialUploadFailure,
			"File metadata could not be saved; the upload was rolled back", cause)
	}

	orphanedObjectsTotal.Inc()
	if qErr := c.queue.Enqueue(ctx, c.store.Bucket(), key, models.ReasonUploadAborted, delErr); qErr != nil {
		log.Error("object orphaned in bucket, manual cleanup required",
			zap.String("bucket", c.store.Bucket()),
			zap.NamedError("delete_error", delErr),
			zap.NamedError("queue_error", qErr),
		)
	} else {
		log.Warn("object queued for deletion", zap.NamedError("delete_error", delErr))
	}
	return apperr.New(apperr.KindPartialUploadFailure,
		"File metadata could not be saved; the stored file may still exist", errors.Join(cause, delErr))
}

// Get returns one record with its download URL.
func (c *Coordinator) Get(ctx context.Context, rawID string) (*FileView, error) {
	id, err := repositories.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	rec, err := c.files.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := c.view(ctx, *rec)
	return &view, nil
}

// List returns every record of the configured bucket. URLs are signed
// concurrently; a missing object only clears that record's URL.
func (c *Coordinator) List(ctx context.Context) ([]FileView, error) {
	recs, err := c.files.ListByBucket(ctx, c.store.Bucket())
	if err != nil {
		return nil, err
	}

	views := make([]FileView, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.PresignWorkers)
	for i := range recs {
		g.Go(func() error {
			views[i] = c.view(gctx, recs[i])
			return nil
		})
	}
	_ = g.Wait()
	return views, nil
}

func (c *Coordinator) view(ctx context.Context, rec models.FileRecord) FileView {
	url, err := c.store.Presign(ctx, rec.Key, c.opts.PresignTTL)
	if err == nil {
		return FileView{Record: rec, URL: &url}
	}

	fields := []zap.Field{zap.String("file_id", rec.ID.String()), zap.String("key", rec.Key), zap.Error(err)}
	if errors.Is(err, apperr.NotFound) {
		presignFailuresTotal.WithLabelValues("missing").Inc()
		c.log.Warn("object missing for record", fields...)
	} else {
		presignFailuresTotal.WithLabelValues("error").Inc()
		c.log.Error("failed to sign download URL", fields...)
	}
	return FileView{Record: rec}
}

// Delete removes the object and then the record. A failed object delete is
// queued and does not stop the record from being removed; a failed record
// delete is returned.
func (c *Coordinator) Delete(ctx context.Context, rawID string) error {
	id, err := repositories.ParseID(rawID)
	if err != nil {
		return err
	}

	rec, err := c.files.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.NotFound) {
			deletesTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}
	log := c.log.With(zap.String("file_id", id.String()), zap.String("key", rec.Key))

	if err := c.store.Delete(ctx, rec.Key); err != nil {
		log.Warn("failed to delete object, queued for retry", zap.Error(err))
		qctx := context.WithoutCancel(ctx)
		if qErr := c.queue.Enqueue(qctx, rec.Bucket, rec.Key, models.ReasonRecordDeleted, err); qErr != nil {
			log.Error("failed to queue object deletion, object orphaned", zap.Error(qErr))
		}
	}

	deleted, err := c.files.DeleteByID(ctx, id)
	if err != nil {
		deletesTotal.WithLabelValues("failed").Inc()
		log.Error("failed to delete metadata", zap.Error(err))
		return err
	}
	if !deleted {
		deletesTotal.WithLabelValues("not_found").Inc()
		return apperr.New(apperr.KindNotFound, "File not found", nil)
	}

	deletesTotal.WithLabelValues("ok").Inc()
	log.Info("file deleted")
	return nil
}

// ListObjects returns the keys present in the bucket, bypassing metadata.
func (c *Coordinator) ListObjects(ctx context.Context) ([]string, error) {
	return c.store.List(ctx, "")
}

// PresignObject signs a URL for a raw object key.
func (c *Coordinator) PresignObject(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", apperr.New(apperr.KindInvalidInput, "Object key is required", nil)
	}
	return c.store.Presign(ctx, key, c.opts.PresignTTL)
}

// validateName rejects display names the metadata column or the object key
// cannot hold.
func validateName(name string) error {
	switch {
	case !utf8.ValidString(name):
		return apperr.New(apperr.KindInvalidInput, "File name is not valid UTF-8", nil)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return apperr.New(apperr.KindInvalidInput, "File name contains control characters", nil)
	case utf8.RuneCountInString(name) > maxFileNameLen:
		return apperr.New(apperr.KindInvalidInput,
			fmt.Sprintf("File name is longer than %d characters", maxFileNameLen), nil)
	}
	return nil
}

// declaredType returns the client's Content-Type if it is a well-formed media
// type that fits the file_type column, and "" otherwise.
func declaredType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || len(contentType) > maxFileTypeLen {
		return ""
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return ""
	}
	return contentType
}

func (c *Coordinator) extensionAllowed(ext string) bool {
	return len(c.opts.AllowedExtensions) == 0 || slices.Contains(c.opts.AllowedExtensions, ext)
}

// ObjectKey namespaces the display name under the record id, so two uploads
// with the same name never share an object.
func ObjectKey(id uuid.UUID, name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, base)
	switch base {
	case "", ".", "..", "/":
		return id.String()
	}
	return id.String() + "/" + base
}

func withKind(err error, kind apperr.Kind, message string) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.New(kind, message, err)
}
