// SPDX-License-Identifier: Apache-2.0

// Package store is the persistence collaborator: canonical employees and
// shifts plus upload/extraction bookkeeping, backed by Postgres via gorm.
package store

import (
	"time"
)

// Upload statuses.
const (
	StatusUploaded  = "uploaded"
	StatusConfirmed = "confirmed"
)

// Employee is a confirmed canonical employee row.
type Employee struct {
	ID        string   `gorm:"type:uuid;primaryKey"`
	Name      string   `gorm:"size:255;not null"`
	Role      *string  `gorm:"size:128"`
	Email     *string  `gorm:"size:255"`
	Phone     *string  `gorm:"size:64"`
	Wage      *float64
	MinHours  *int
	MaxHours  *int
	CreatedAt time.Time
}

// Shift is a confirmed canonical shift row. EmployeeName is the weak link
// to Employee; extraction offers no stable identifier to key on.
type Shift struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UploadID       string    `gorm:"type:uuid;index"`
	EmployeeName   string    `gorm:"size:255;not null"`
	Role           *string   `gorm:"size:128"`
	Date           time.Time `gorm:"type:date;not null"`
	StartTime      string    `gorm:"size:5;not null"`
	EndTime        string    `gorm:"size:5;not null"`
	Overnight      bool
	UnpaidBreakMin *int
	Status         *string `gorm:"size:64"`
	Location       *string `gorm:"size:255"`
	CreatedAt      time.Time
}

// TimesheetUpload tracks one uploaded file and its lifecycle.
type TimesheetUpload struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Filename  string `gorm:"size:1024;not null"`
	FileType  string `gorm:"size:32;not null"`
	SizeBytes int64
	Status    string `gorm:"size:32;not null;default:uploaded"`
	CreatedAt time.Time
}

// ExtractionRun stores the preview produced for an upload, verbatim, so the
// review UI can replay it.
type ExtractionRun struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	UploadID    string `gorm:"type:uuid;index;not null"`
	ResultJSON  []byte `gorm:"type:jsonb;not null"`
	NeedsReview bool
	CreatedAt   time.Time
}
