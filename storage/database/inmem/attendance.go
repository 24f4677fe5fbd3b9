package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/student"
)

type attendanceRepository struct {
	db *DB
}

var (
	_ attendance.Repository     = (*attendanceRepository)(nil) // interface compliance check
	_ student.AttendanceCounter = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	defer repo.db.lockWrite(exec)()

	if _, ok := repo.db.student[rec.StudentID]; !ok {
		return attendance.Record{}, student.ErrNotFound
	}
	rec.Date = core.TruncateDate(rec.Date)

	for id, old := range repo.db.attendance {
		if old.StudentID == rec.StudentID && old.Date.Equal(rec.Date) {
			rec.ID = id
			rec.CreatedAt = old.CreatedAt
			repo.db.attendance[id] = rec
			return rec, nil
		}
	}
	rec.ID = repo.db.nextPK()
	repo.db.attendance[rec.ID] = rec
	return rec, nil
}

func (repo *attendanceRepository) query(filter attendance.QueryFilter) []attendance.Record {
	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendance {
		if rec.StudentID != filter.StudentID {
			continue
		}
		if (!filter.From.IsZero() && rec.Date.Before(filter.From)) || (!filter.To.IsZero() && rec.Date.After(filter.To)) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter, _ ...core.DBExecutor) ([]attendance.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := repo.query(filter)
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func (repo *attendanceRepository) CountAttendance(_ context.Context, studentID int64, _ ...core.DBExecutor) (present, total int, err error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, rec := range repo.query(attendance.QueryFilter{StudentID: studentID}) {
		total++
		if rec.Attended() {
			present++
		}
	}
	return present, total, nil
}
