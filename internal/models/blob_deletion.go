package models

import (
	"time"

	"github.com/google/uuid"
)

// BlobDeletion is a pending removal of an object whose metadata is already
// gone (or was never written). The reaper retries it until the object is
// deleted or MaxAttempts is reached.
type BlobDeletion struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Bucket        string    `json:"bucket" gorm:"size:100;not null"`
	Key           string    `json:"key" gorm:"size:1024;not null"`
	Reason        string    `json:"reason" gorm:"size:64;not null"`
	Attempts      int       `json:"attempts" gorm:"not null;default:0"`
	LastError     string    `json:"last_error" gorm:"type:text"`
	NextAttemptAt time.Time `json:"next_attempt_at" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

const (
	ReasonRecordDeleted = "record_deleted"
	ReasonUploadAborted = "upload_aborted"
)
