// SPDX-License-Identifier: Apache-2.0

// Package confirm reconciles a human-edited preview into canonical records.
// Confidence and evidence are extraction-only concepts; by this point the
// payload is plain data to validate and commit.
package confirm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amaziapp/shiftsheet/internal/models"
)

// Validation failure reasons reported per record.
const (
	ReasonInvalidRecord = "invalid_record"
	ReasonOrphanShift   = "orphan_shift"
	ReasonStorage       = "storage"
)

// RecordError names one offending record by kind and payload index.
type RecordError struct {
	Kind   string `json:"kind"` // "employee" or "shift"
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// ConfirmationError aborts the whole commit: validation reports every
// offending record, but the payload commits all-or-nothing, so a single
// invalid record means zero records are persisted.
type ConfirmationError struct {
	Reason  string        `json:"reason"`
	Records []RecordError `json:"records,omitempty"`
	err     error
}

func (e *ConfirmationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("confirmation failed (%s): %v", e.Reason, e.err)
	}
	return fmt.Sprintf("confirmation failed (%s): %d invalid record(s)", e.Reason, len(e.Records))
}

func (e *ConfirmationError) Unwrap() error { return e.err }

// RecordWriter persists canonical records inside an ambient transaction.
type RecordWriter interface {
	SaveEmployee(ctx context.Context, e models.EmployeeRecord) error
	SaveShift(ctx context.Context, uploadID string, s models.ShiftRecord) error
}

// Store supplies the transaction the commit runs in. The function either
// commits everything or rolls back everything.
type Store interface {
	Transact(ctx context.Context, fn func(tx RecordWriter) error) error
}

// Reconciler validates and commits edited employee/shift payloads.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Confirm validates the edited payload and commits it in one transaction.
// It returns the number of committed records. Any validation failure or
// storage error commits nothing.
func (r *Reconciler) Confirm(ctx context.Context, uploadID string, employees []models.EmployeeRecord, shifts []models.ShiftRecord) (int, error) {
	recErrs := Validate(employees, shifts)
	if len(recErrs) > 0 {
		return 0, &ConfirmationError{Reason: ReasonInvalidRecord, Records: recErrs}
	}

	err := r.store.Transact(ctx, func(tx RecordWriter) error {
		for _, e := range employees {
			if err := tx.SaveEmployee(ctx, e); err != nil {
				return fmt.Errorf("save employee %q: %w", e.Name, err)
			}
		}
		for _, s := range shifts {
			if err := tx.SaveShift(ctx, uploadID, s); err != nil {
				return fmt.Errorf("save shift for %q on %s: %w", s.EmployeeName, s.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, &ConfirmationError{Reason: ReasonStorage, err: err}
	}
	return len(employees) + len(shifts), nil
}

// Validate checks every record and reports every failure; it never stops at
// the first offender so the caller can surface the full list.
func Validate(employees []models.EmployeeRecord, shifts []models.ShiftRecord) []RecordError {
	var errs []RecordError

	names := make(map[string]bool, len(employees))
	for i, e := range employees {
		name := normalizeKey(e.Name)
		if name == "" {
			errs = append(errs, RecordError{
				Kind: "employee", Index: i, Field: models.FieldName,
				Reason: ReasonInvalidRecord, Detail: "name must not be empty",
			})
			continue
		}
		names[name] = true
		if e.MinHours != nil && e.MaxHours != nil && *e.MinHours > *e.MaxHours {
			errs = append(errs, RecordError{
				Kind: "employee", Index: i, Field: models.FieldMinHours,
				Reason: ReasonInvalidRecord, Detail: "min_hours exceeds max_hours",
			})
		}
	}

	for i, s := range shifts {
		required := []struct {
			field string
			value string
		}{
			{models.FieldEmployeeName, s.EmployeeName},
			{models.FieldDate, s.Date},
			{models.FieldStartTime, s.StartTime},
			{models.FieldEndTime, s.EndTime},
		}
		for _, rq := range required {
			field, value := rq.field, rq.value
			if strings.TrimSpace(value) == "" {
				errs = append(errs, RecordError{
					Kind: "shift", Index: i, Field: field,
					Reason: ReasonInvalidRecord, Detail: field + " must not be empty",
				})
			}
		}
		if s.Date != "" {
			if _, err := time.Parse("2006-01-02", s.Date); err != nil {
				errs = append(errs, RecordError{
					Kind: "shift", Index: i, Field: models.FieldDate,
					Reason: ReasonInvalidRecord, Detail: "date must be YYYY-MM-DD",
				})
			}
		}
		clocks := []struct {
			field string
			value string
		}{
			{models.FieldStartTime, s.StartTime},
			{models.FieldEndTime, s.EndTime},
		}
		for _, cl := range clocks {
			field, value := cl.field, cl.value
			if value == "" {
				continue
			}
			if _, err := time.Parse("15:04", value); err != nil {
				errs = append(errs, RecordError{
					Kind: "shift", Index: i, Field: field,
					Reason: ReasonInvalidRecord, Detail: field + " must be HH:MM",
				})
			}
		}
		if key := normalizeKey(s.EmployeeName); key != "" && !names[key] {
			errs = append(errs, RecordError{
				Kind: "shift", Index: i, Field: models.FieldEmployeeName,
				Reason: ReasonOrphanShift,
				Detail: fmt.Sprintf("no employee named %q in payload", s.EmployeeName),
			})
		}
	}
	return errs
}

// normalizeKey matches shift employee_name to employee name the same way
// the aggregator deduplicates: case- and whitespace-insensitive.
func normalizeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
