package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/metrics"
)

type (
	Repository interface {
		// UpsertRecord creates or updates the record for (student, date) and returns the stored row.
		UpsertRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		// QueryRecords returns the records matching the filter, ordered by date.
		QueryRecords(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		CountAttendance(ctx context.Context, studentID int64, exec ...core.DBExecutor) (present, total int, err error)
	}

	StudentFinder interface {
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error)
		GetChild(ctx context.Context, parentID, id int64) (student.Student, error)
	}

	AbsenceNotifier interface {
		NotifyAbsence(ctx context.Context, stu student.Student, date time.Time, exec core.DBExecutor) (notification.Notification, notification.Outcome, error)
		Deliver(ctx context.Context, stu student.Student, n notification.Notification)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		notifier AbsenceNotifier
		tx       core.Transactor
		minYear  int
		maxYear  int
		nowFunc  func() time.Time
	}
)

func NewService(conf *core.Config, repo Repository, students StudentFinder, notifier AbsenceNotifier, tx core.Transactor) *Service {
	return &Service{
		repo:     repo,
		students: students,
		notifier: notifier,
		tx:       tx,
		minYear:  conf.Attendance.MinYear,
		maxYear:  conf.Attendance.MaxYear,
		nowFunc:  time.Now,
	}
}

// Record stores a student's attendance for a day.
// When the stored status is absent, the absence notification is upserted in the same transaction,
// and a newly created notification is emailed to the parent once committed.
func (svc *Service) Record(ctx context.Context, nr NewRecord) (Record, error) {
	date, err := core.ParseDate(nr.Date)
	if err != nil {
		return Record{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
	}

	var (
		rec     Record
		stu     student.Student
		notif   notification.Notification
		outcome notification.Outcome
	)
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if stu, err = svc.students.GetStudent(ctx, nr.StudentID, exec); err != nil {
			return err
		}

		now := svc.nowFunc().UTC()
		rec, err = svc.repo.UpsertRecord(ctx, Record{
			StudentID: stu.ID,
			Date:      date,
			Status:    nr.Status,
			Remarks:   nr.Remarks,
			CreatedAt: now,
			UpdatedAt: now,
		}, exec)
		if err != nil {
			return errors.Wrap(err, "upserting attendance record")
		}

		// the stored row wins over the request when writes race
		if rec.Status != StatusAbsent {
			return nil
		}
		notif, outcome, err = svc.notifier.NotifyAbsence(ctx, stu, rec.Date, exec)
		return err
	})
	if err != nil {
		return Record{}, err
	}

	metrics.AttendanceWritesTotal.WithLabelValues(rec.Status).Inc()
	if outcome == notification.OutcomeCreated {
		svc.notifier.Deliver(ctx, stu, notif)
	}
	return rec, nil
}

// MonthlyReport returns the attendance calendar of the parent's child for the queried month.
func (svc *Service) MonthlyReport(ctx context.Context, parentID int64, q ReportQuery) (MonthlyReport, error) {
	now := svc.nowFunc()
	year, mon := now.Year(), int(now.Month())
	if q.Year.Valid {
		year = q.Year.Int
	}
	if q.Month.Valid {
		mon = q.Month.Int
	}
	if err := svc.validatePeriod(year, mon); err != nil {
		return MonthlyReport{}, err
	}

	stu, err := svc.students.GetChild(ctx, parentID, q.Student)
	if err != nil {
		return MonthlyReport{}, err
	}

	month := time.Month(mon)
	records, err := svc.repo.QueryRecords(ctx, QueryFilter{
		StudentID: stu.ID,
		From:      core.Date(year, month, 1),
		To:        core.Date(year, month, DaysIn(year, month)),
	})
	if err != nil {
		return MonthlyReport{}, errors.Wrap(err, "querying attendance records")
	}

	metrics.ReportsTotal.Inc()
	return BuildMonthlyReport(stu, year, month, records), nil
}

func (svc *Service) validatePeriod(year, month int) error {
	var flds []core.FieldError
	if month < 1 || month > 12 {
		flds = append(flds, core.FieldError{Field: "month", Error: "month must be between 1 and 12"})
	}
	if year < svc.minYear || year > svc.maxYear {
		flds = append(flds, core.FieldError{
			Field: "year",
			Error: fmt.Sprintf("year must be between %d and %d", svc.minYear, svc.maxYear),
		})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// AttendancePercentage returns the share of the student's recorded days they attended, over all time.
func (svc *Service) AttendancePercentage(ctx context.Context, studentID int64) (float64, error) {
	present, total, err := svc.repo.CountAttendance(ctx, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "counting attendance")
	}
	return core.Percentage(float64(present), float64(total)), nil
}
