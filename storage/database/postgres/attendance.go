package pgrepos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/student"
)

const recordColumns = "id, student_id, date, status, remarks, created_at, updated_at"

type attendanceRepository struct {
	baseRepository
}

var (
	_ attendance.Repository     = (*attendanceRepository)(nil) // interface compliance check
	_ student.AttendanceCounter = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{baseRepository{exec: exec}}
}

// UpsertRecord relies on the (student_id, date) unique constraint: the last write wins,
// and the returned row is the one actually stored.
func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	q := `INSERT INTO attendance (student_id, date, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = EXCLUDED.status, remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns

	var stored attendance.Record
	err := sqlx.GetContext(ctx, repo.getExec(exec), &stored, q,
		rec.StudentID, core.TruncateDate(rec.Date), rec.Status, rec.Remarks, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		if pqErrCode(err) == foreignKeyViolation {
			return attendance.Record{}, student.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return stored, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Record, error) {
	args := []interface{}{filter.StudentID}
	q := `SELECT ` + recordColumns + ` FROM attendance WHERE student_id = $1`
	if !filter.From.IsZero() {
		args = append(args, core.TruncateDate(filter.From))
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, core.TruncateDate(filter.To))
		q += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	q += " ORDER BY date"

	records := make([]attendance.Record, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &records, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance records")
	}
	return records, nil
}

func (repo attendanceRepository) CountAttendance(ctx context.Context, studentID int64, exec ...core.DBExecutor) (present, total int, err error) {
	q := `SELECT COUNT(*) FILTER (WHERE status IN ($2, $3)) AS present, COUNT(*) AS total
		FROM attendance WHERE student_id = $1`

	var counts struct {
		Present int `db:"present"`
		Total   int `db:"total"`
	}
	err = sqlx.GetContext(ctx, repo.getExec(exec), &counts, q, studentID, attendance.StatusPresent, attendance.StatusLate)
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting attendance")
	}
	return counts.Present, counts.Total, nil
}
