package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/models"
	"gorm.io/gorm"
)

// FileRepository persists FileRecord rows in the file_metadata table.
type FileRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewFileRepository(db *gorm.DB, timeout time.Duration) *FileRepository {
	return &FileRepository{db: db, timeout: timeout}
}

// ParseID validates a client-supplied record identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindInvalidInput, "Invalid file identifier", err)
	}
	return id, nil
}

// Create inserts rec in its own transaction, filling ID and UploadedDate when
// they are unset. rec is updated in place.
func (r *FileRepository) Create(ctx context.Context, rec *models.FileRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.UploadedDate.IsZero() {
		rec.UploadedDate = time.Now().UTC().Truncate(time.Microsecond)
	}

	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if err != nil {
		return apperr.New(apperr.KindDatabase, "Failed to save file metadata", err)
	}
	return nil
}

func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error) {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	var rec models.FileRecord
	err := db.Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "File not found", err)
	}
	if err != nil {
		return nil, apperr.New(apperr.KindDatabase, "Failed to load file metadata", err)
	}
	return &rec, nil
}

// ListByBucket returns every record stored for bucket in the engine's
// natural order.
func (r *FileRepository) ListByBucket(ctx context.Context, bucket string) ([]models.FileRecord, error) {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	var recs []models.FileRecord
	if err := db.Where("bucket = ?", bucket).Find(&recs).Error; err != nil {
		return nil, apperr.New(apperr.KindDatabase, "Failed to list files", err)
	}
	return recs, nil
}

// DeleteByID removes the record. It reports false, without error, when no
// record matched.
func (r *FileRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.FileRecord{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, apperr.New(apperr.KindDatabase, "Failed to delete file metadata", err)
	}
	return affected > 0, nil
}

// Ping checks that the database answers.
func (r *FileRepository) Ping(ctx context.Context) error {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(db.Statement.Context)
}

func withTimeout(ctx context.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	if timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return db.WithContext(ctx), cancel
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return db.WithContext(ctx), cancel
}
