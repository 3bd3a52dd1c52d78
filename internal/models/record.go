// SPDX-License-Identifier: Apache-2.0

package models

// Canonical field names. These are the stable wire contract: the preview's
// needs_review_fields set is expressed in these names.
const (
	FieldName         = "name"
	FieldRole         = "role"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldWage         = "wage"
	FieldMinHours     = "min_hours"
	FieldMaxHours     = "max_hours"
	FieldEmployeeName = "employee_name"
	FieldDate         = "date"
	FieldStartTime    = "start_time"
	FieldEndTime      = "end_time"
	FieldUnpaidBreak  = "unpaid_break_min"
	FieldStatus       = "status"
	FieldLocation     = "location"
	FieldOvernight    = "overnight"
)

// ReviewEndBeforeStart is a pseudo-field flagged when a shift ends at or
// before its start without an explicit overnight marker.
const ReviewEndBeforeStart = "end_before_start"

// EmployeeFields lists every field an employee record can carry.
func EmployeeFields() []string {
	return []string{
		FieldName, FieldRole, FieldEmail, FieldPhone,
		FieldWage, FieldMinHours, FieldMaxHours,
	}
}

// ShiftFields lists every field a shift record can carry.
func ShiftFields() []string {
	return []string{
		FieldEmployeeName, FieldRole, FieldDate, FieldStartTime, FieldEndTime,
		FieldUnpaidBreak, FieldStatus, FieldLocation,
	}
}

// AllFields is the union of employee and shift fields, in declaration order.
func AllFields() []string {
	out := EmployeeFields()
	for _, f := range ShiftFields() {
		if f == FieldRole {
			continue
		}
		out = append(out, f)
	}
	return out
}

// EmployeeRecord is one detected person. Name may be empty in a draft but is
// required once confirmed. Evidence and Confidence are extraction-only and
// absent from canonical records.
type EmployeeRecord struct {
	Name       string    `json:"name"`
	Role       *string   `json:"role"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Wage       *float64  `json:"wage"`
	MinHours   *int      `json:"min_hours"`
	MaxHours   *int      `json:"max_hours"`
	Evidence   *Evidence `json:"evidence,omitempty"`
	Confidence float64   `json:"confidence"`
}

// ShiftRecord is one detected shift. It links to an employee by name
// equality, not by identifier: source data offers no stable ids before
// confirmation. Date is "2006-01-02"; times are 24h "15:04". Overnight marks
// an explicit crosses-midnight indicator found in the source.
type ShiftRecord struct {
	EmployeeName   string    `json:"employee_name"`
	Role           *string   `json:"role"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Overnight      bool      `json:"overnight,omitempty"`
	UnpaidBreakMin *int      `json:"unpaid_break_min"`
	Status         *string   `json:"status"`
	Location       *string   `json:"location"`
	Evidence       *Evidence `json:"evidence,omitempty"`
	Confidence     float64   `json:"confidence"`
}

// ExtractionPreview is the reviewable draft produced for one upload.
// Read-only once produced; record order follows source row order.
type ExtractionPreview struct {
	FileType          FileKind         `json:"file_type"`
	Employees         []EmployeeRecord `json:"employees"`
	Shifts            []ShiftRecord    `json:"shifts"`
	NeedsReviewFields []string         `json:"needs_review_fields"`
}
