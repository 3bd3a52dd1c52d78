// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/amaziapp/shiftsheet/internal/confirm"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// PostgresStore wraps a gorm connection. It implements confirm.Store, so
// the reconciler's commit runs inside one database transaction.
type PostgresStore struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Employee{}, &Shift{}, &TimesheetUpload{}, &ExtractionRun{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// CreateUpload records a new upload and its extraction run atomically and
// returns the generated upload id.
func (s *PostgresStore) CreateUpload(ctx context.Context, filename, fileType string, size int64, resultJSON []byte, needsReview bool) (string, error) {
	uploadID := uuid.NewString()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		up := TimesheetUpload{
			ID:        uploadID,
			Filename:  filename,
			FileType:  fileType,
			SizeBytes: size,
			Status:    StatusUploaded,
		}
		if err := tx.Create(&up).Error; err != nil {
			return err
		}
		run := ExtractionRun{
			ID:          uuid.NewString(),
			UploadID:    uploadID,
			ResultJSON:  resultJSON,
			NeedsReview: needsReview,
		}
		return tx.Create(&run).Error
	})
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	return uploadID, nil
}

func (s *PostgresStore) GetUpload(ctx context.Context, id string) (*TimesheetUpload, error) {
	var up TimesheetUpload
	if err := s.db.WithContext(ctx).First(&up, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &up, nil
}

func (s *PostgresStore) MarkUploadStatus(ctx context.Context, id, status string) error {
	return s.db.WithContext(ctx).Model(&TimesheetUpload{}).
		Where("id = ?", id).Update("status", status).Error
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *PostgresStore) ListShifts(ctx context.Context) ([]Shift, error) {
	var out []Shift
	err := s.db.WithContext(ctx).Order("date, start_time").Find(&out).Error
	return out, err
}

// PurgeStaleUploads removes unconfirmed uploads (and their extraction runs)
// created before the cutoff. Confirmed uploads are kept for audit.
func (s *PostgresStore) PurgeStaleUploads(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&TimesheetUpload{}).
			Where("created_at < ? AND status <> ?", before, StatusConfirmed).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("upload_id IN ?", ids).Delete(&ExtractionRun{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&TimesheetUpload{})
		purged = res.RowsAffected
		return res.Error
	})
	return purged, err
}

// Transact implements confirm.Store.
func (s *PostgresStore) Transact(ctx context.Context, fn func(tx confirm.RecordWriter) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txWriter{db: tx})
	})
}

type txWriter struct {
	db *gorm.DB
}

func (w *txWriter) SaveEmployee(ctx context.Context, e models.EmployeeRecord) error {
	row := Employee{
		ID:       uuid.NewString(),
		Name:     e.Name,
		Role:     e.Role,
		Email:    e.Email,
		Phone:    e.Phone,
		Wage:     e.Wage,
		MinHours: e.MinHours,
		MaxHours: e.MaxHours,
	}
	return w.db.WithContext(ctx).Create(&row).Error
}

func (w *txWriter) SaveShift(ctx context.Context, uploadID string, sh models.ShiftRecord) error {
	date, err := time.Parse("2006-01-02", sh.Date)
	if err != nil {
		return fmt.Errorf("shift date %q: %w", sh.Date, err)
	}
	row := Shift{
		ID:             uuid.NewString(),
		UploadID:       uploadID,
		EmployeeName:   sh.EmployeeName,
		Role:           sh.Role,
		Date:           date,
		StartTime:      sh.StartTime,
		EndTime:        sh.EndTime,
		Overnight:      sh.Overnight,
		UnpaidBreakMin: sh.UnpaidBreakMin,
		Status:         sh.Status,
		Location:       sh.Location,
	}
	return w.db.WithContext(ctx).Create(&row).Error
}
