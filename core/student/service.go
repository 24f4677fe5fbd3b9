package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("no active student found")
	ErrSubjectNotFound = core.NewNotFoundError("subject not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		// QueryStudents returns students matching the filter, ordered by ID.
		QueryStudents(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Student, error)
		UpsertSubject(ctx context.Context, sub Subject, exec ...core.DBExecutor) (Subject, error)
		GetSubject(ctx context.Context, code string, exec ...core.DBExecutor) (Subject, error)
		// UpsertGrade creates or updates the grade for (student, subject, exam name).
		UpsertGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		// QueryLatestGrades returns the most recent grade of each subject, ordered by subject name.
		QueryLatestGrades(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]Grade, error)
	}

	// AttendanceCounter counts a student's recorded attendance days.
	AttendanceCounter interface {
		// CountAttendance returns the number of days recorded present or late, and the number of recorded days.
		CountAttendance(ctx context.Context, studentID int64, exec ...core.DBExecutor) (present, total int, err error)
	}

	Service struct {
		repo       Repository
		attendance AttendanceCounter
	}
)

func NewService(repo Repository, attendance AttendanceCounter) *Service {
	return &Service{repo: repo, attendance: attendance}
}

// ListChildren returns the parent's active children.
func (svc *Service) ListChildren(ctx context.Context, parentID int64) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, QueryFilter{ParentID: parentID, Status: StatusActive})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

// GetChild returns the parent's active child with the given ID, or their first active child if id is 0.
func (svc *Service) GetChild(ctx context.Context, parentID, id int64) (Student, error) {
	if id == 0 {
		children, err := svc.ListChildren(ctx, parentID)
		if err != nil {
			return Student{}, err
		}
		if len(children) == 0 {
			return Student{}, ErrNotFound
		}
		return children[0], nil
	}

	stu, err := svc.repo.GetStudent(ctx, GetFilter{ID: id, ParentID: parentID, Status: StatusActive})
	if err != nil {
		if core.IsNotFound(err) {
			return Student{}, ErrNotFound
		}
		return Student{}, errors.Wrap(err, "finding student")
	}
	return stu, nil
}

// GetStudent returns any student by ID, regardless of owner and status.
func (svc *Service) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{ID: id}, exec...)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	stu := Student{
		ParentID:      ns.ParentID,
		StudentID:     ns.StudentID,
		FirstName:     ns.FirstName,
		LastName:      ns.LastName,
		DateOfBirth:   core.Date(2000, time.January, 1),
		Gender:        GenderMale,
		ContactNumber: ns.ContactNumber,
		Email:         ns.Email,
		Address:       ns.Address,
		ClassName:     "Class 1",
		Section:       "A",
		RollNumber:    "0001",
		AdmissionDate: core.TruncateDate(now),
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ns.DateOfBirth != "" {
		dob, err := core.ParseDate(ns.DateOfBirth)
		if err != nil {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "date_of_birth", Error: err.Error()})
		}
		stu.DateOfBirth = dob
	}
	if ns.AdmissionDate != "" {
		ad, err := core.ParseDate(ns.AdmissionDate)
		if err != nil {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "admission_date", Error: err.Error()})
		}
		stu.AdmissionDate = ad
	}
	if ns.Gender != "" {
		stu.Gender = ns.Gender
	}
	if ns.ClassName != "" {
		stu.ClassName = ns.ClassName
	}
	if ns.Section != "" {
		stu.Section = ns.Section
	}
	if ns.RollNumber != "" {
		stu.RollNumber = ns.RollNumber
	}
	if ns.Status != "" {
		stu.Status = ns.Status
	}

	stu, err := svc.repo.CreateStudent(ctx, stu)
	if err != nil {
		if errors.Cause(err) == ErrStudentIDExists {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	return stu, nil
}

func (svc *Service) AddSubject(ctx context.Context, name, code, description string) (Subject, error) {
	now := time.Now().UTC()
	return svc.repo.UpsertSubject(ctx, Subject{
		Name:        core.CleanString(name),
		Code:        core.CleanString(code),
		Description: core.CleanString(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// AddGrade records (or corrects) a student's exam result; the percentage is derived from the marks.
func (svc *Service) AddGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	sub, err := svc.repo.GetSubject(ctx, ng.SubjectCode)
	if err != nil {
		return Grade{}, err
	}
	if _, err = svc.GetStudent(ctx, ng.StudentID); err != nil {
		return Grade{}, err
	}

	now := time.Now().UTC()
	g := Grade{
		StudentID:     ng.StudentID,
		SubjectID:     sub.ID,
		SubjectName:   sub.Name,
		MarksObtained: ng.MarksObtained,
		TotalMarks:    ng.TotalMarks,
		Percentage:    core.Percentage(ng.MarksObtained, ng.TotalMarks),
		Grade:         ng.Grade,
		ExamName:      ng.ExamName,
		ExamDate:      core.TruncateDate(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ng.ExamDate != "" {
		if g.ExamDate, err = core.ParseDate(ng.ExamDate); err != nil {
			return Grade{}, core.NewValidationError(err, core.FieldError{Field: "exam_date", Error: err.Error()})
		}
	}
	return svc.repo.UpsertGrade(ctx, g)
}

// Profile returns the academic profile of the parent's child (first active child if id is 0).
func (svc *Service) Profile(ctx context.Context, parentID, id int64) (Profile, error) {
	stu, err := svc.GetChild(ctx, parentID, id)
	if err != nil {
		return Profile{}, err
	}

	grades, err := svc.repo.QueryLatestGrades(ctx, stu.ID)
	if err != nil {
		return Profile{}, errors.Wrap(err, "querying latest grades")
	}

	present, total, err := svc.attendance.CountAttendance(ctx, stu.ID)
	if err != nil {
		return Profile{}, errors.Wrap(err, "counting attendance")
	}

	return NewProfile(stu, grades, core.Percentage(float64(present), float64(total))), nil
}
