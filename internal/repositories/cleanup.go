package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/filebridge/internal/models"
	"gorm.io/gorm"
)

// CleanupRepository stores blob deletions that could not be completed
// inline. Rows are consumed by services.Reaper.
type CleanupRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCleanupRepository(db *gorm.DB, timeout time.Duration) *CleanupRepository {
	return &CleanupRepository{db: db, timeout: timeout}
}

// Enqueue records a pending deletion, due immediately.
func (r *CleanupRepository) Enqueue(ctx context.Context, bucket, key, reason string, cause error) error {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	task := models.BlobDeletion{
		ID:            uuid.New(),
		Bucket:        bucket,
		Key:           key,
		Reason:        reason,
		NextAttemptAt: time.Now().UTC(),
	}
	if cause != nil {
		task.LastError = cause.Error()
	}
	if err := db.Create(&task).Error; err != nil {
		return fmt.Errorf("enqueue blob deletion %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Due returns up to limit tasks whose next attempt is at or before now and
// that have been tried fewer than maxAttempts times, oldest first.
func (r *CleanupRepository) Due(ctx context.Context, now time.Time, maxAttempts, limit int) ([]models.BlobDeletion, error) {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	var tasks []models.BlobDeletion
	err := db.
		Where("next_attempt_at <= ? AND attempts < ?", now, maxAttempts).
		Order("next_attempt_at").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("load due blob deletions: %w", err)
	}
	return tasks, nil
}

// Complete removes a finished task.
func (r *CleanupRepository) Complete(ctx context.Context, id uuid.UUID) error {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	if err := db.Where("id = ?", id).Delete(&models.BlobDeletion{}).Error; err != nil {
		return fmt.Errorf("complete blob deletion %s: %w", id, err)
	}
	return nil
}

// Reschedule stores the outcome of a failed attempt.
func (r *CleanupRepository) Reschedule(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	err := db.Model(&models.BlobDeletion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      lastErr,
		}).Error
	if err != nil {
		return fmt.Errorf("reschedule blob deletion %s: %w", id, err)
	}
	return nil
}

// Pending counts tasks that are still eligible for another attempt.
func (r *CleanupRepository) Pending(ctx context.Context, maxAttempts int) (int64, error) {
	db, cancel := withTimeout(ctx, r.db, r.timeout)
	defer cancel()

	var n int64
	err := db.Model(&models.BlobDeletion{}).Where("attempts < ?", maxAttempts).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count blob deletions: %w", err)
	}
	return n, nil
}
