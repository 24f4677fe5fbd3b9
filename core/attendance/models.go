package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wazazi/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// Record is a student's attendance for one calendar day.
// There is at most one Record per (student, date).
type Record struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	Remarks   string    `db:"remarks"`
	CreatedAt time.Time `db:"created_at"` // UTC
	UpdatedAt time.Time `db:"updated_at"` // UTC
}

// Attended reports whether the student was in school that day, on time or not.
func (r Record) Attended() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}

// NewRecord contains information needed to record a student's attendance for a day.
// Recording a day twice updates the existing Record.
type NewRecord struct {
	StudentID int64  `json:"student" validate:"required,min=1"`
	Date      string `json:"date" validate:"required,isodate"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
	Remarks   string `json:"remarks"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.Date = core.CleanString(nr.Date)
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	nr.Remarks = core.CleanString(nr.Remarks)
	return validate.Struct(nr)
}

// QueryFilter selects a student's records within [From, To] (inclusive, zero bounds ignored).
type QueryFilter struct {
	StudentID int64
	From      time.Time
	To        time.Time
}

// ReportQuery selects the month to report on. An unset Year / Month means the current one,
// and a zero Student the parent's first active child.
type ReportQuery struct {
	Year    null.Int
	Month   null.Int
	Student int64
}
