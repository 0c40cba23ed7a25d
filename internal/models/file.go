package models

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord describes one uploaded blob. Rows are created by a successful
// upload and removed as a unit with the blob; no field is updated in place.
type FileRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FileName     string    `json:"file_name" gorm:"size:255;not null"`
	Key          string    `json:"key" gorm:"size:1024;not null"`         // object key in the bucket
	Bucket       string    `json:"bucket" gorm:"size:100;not null;index"` // bucket the key lives in
	Size         int64     `json:"size" gorm:"not null"`                  // bytes, measured from content
	Format       string    `json:"format" gorm:"size:10;not null"`        // sniffed extension
	FileType     string    `json:"file_type" gorm:"size:100;not null"`    // sniffed MIME type
	UploadedDate time.Time `json:"uploaded_date" gorm:"not null;index"`   // UTC
}

func (FileRecord) TableName() string {
	return "file_metadata"
}
