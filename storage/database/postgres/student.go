package pgrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

const (
	parentColumns  = "id, name, email, phone, created_at"
	studentColumns = "id, parent_id, student_id, first_name, last_name, date_of_birth, gender, contact_number, email, " +
		"address, class_name, section, roll_number, admission_date, status, created_at, updated_at"
	subjectColumns = "id, name, code, description, created_at, updated_at"
	gradeColumns   = "g.id, g.student_id, g.subject_id, s.name AS subject_name, g.marks_obtained, g.total_marks, " +
		"g.percentage, g.grade, g.exam_name, g.exam_date, g.created_at, g.updated_at"
)

type parentRepository struct {
	baseRepository
}

var _ parent.Repository = (*parentRepository)(nil) // interface compliance check

func NewParentRepository(exec core.DBExecutor) *parentRepository {
	return &parentRepository{baseRepository{exec: exec}}
}

func (repo parentRepository) CreateParent(ctx context.Context, p parent.Parent, exec ...core.DBExecutor) (parent.Parent, error) {
	q := `INSERT INTO parent (name, email, phone, created_at) VALUES ($1, $2, $3, $4) RETURNING ` + parentColumns
	var created parent.Parent
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &created, q, p.Name, p.Email, p.Phone, p.CreatedAt.UTC()); err != nil {
		return parent.Parent{}, errors.Wrap(err, "inserting parent")
	}
	return created, nil
}

func (repo parentRepository) GetParent(ctx context.Context, id int64, exec ...core.DBExecutor) (parent.Parent, error) {
	var p parent.Parent
	q := `SELECT ` + parentColumns + ` FROM parent WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &p, q, id); err != nil {
		return parent.Parent{}, trapNoRowsErr(err, parent.ErrNotFound, "selecting parent")
	}
	return p, nil
}

type studentRepository struct {
	baseRepository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{baseRepository{exec: exec}}
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	q := `INSERT INTO student (parent_id, student_id, first_name, last_name, date_of_birth, gender, contact_number, email,
		address, class_name, section, roll_number, admission_date, status, created_at, updated_at)
		VALUES (:parent_id, :student_id, :first_name, :last_name, :date_of_birth, :gender, :contact_number, :email,
		:address, :class_name, :section, :roll_number, :admission_date, :status, :created_at, :updated_at)
		RETURNING ` + studentColumns

	e := repo.getExec(exec)
	q, args, err := e.BindNamed(q, stu)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "binding student")
	}

	var created student.Student
	if err = sqlx.GetContext(ctx, e, &created, q, args...); err != nil {
		switch pqErrCode(err) {
		case uniqueViolation:
			return student.Student{}, student.ErrStudentIDExists
		case foreignKeyViolation:
			return student.Student{}, parent.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return created, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ParentID != 0 {
		args = append(args, filter.ParentID)
		where = append(where, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + studentColumns + ` FROM student`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	students := make([]student.Student, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &students, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter, exec ...core.DBExecutor) (student.Student, error) {
	args := []interface{}{filter.ID}
	q := `SELECT ` + studentColumns + ` FROM student WHERE id = $1`
	if filter.ParentID != 0 {
		args = append(args, filter.ParentID)
		q += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var stu student.Student
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &stu, q, args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "selecting student")
	}
	return stu, nil
}

func (repo studentRepository) UpsertSubject(ctx context.Context, sub student.Subject, exec ...core.DBExecutor) (student.Subject, error) {
	q := `INSERT INTO subject (name, code, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
		RETURNING ` + subjectColumns

	var stored student.Subject
	err := sqlx.GetContext(ctx, repo.getExec(exec), &stored, q, sub.Name, sub.Code, sub.Description, sub.CreatedAt.UTC(), sub.UpdatedAt.UTC())
	if err != nil {
		return student.Subject{}, errors.Wrap(err, "upserting subject")
	}
	return stored, nil
}

func (repo studentRepository) GetSubject(ctx context.Context, code string, exec ...core.DBExecutor) (student.Subject, error) {
	var sub student.Subject
	q := `SELECT ` + subjectColumns + ` FROM subject WHERE code = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &sub, q, code); err != nil {
		return student.Subject{}, trapNoRowsErr(err, student.ErrSubjectNotFound, "selecting subject")
	}
	return sub, nil
}

func (repo studentRepository) UpsertGrade(ctx context.Context, g student.Grade, exec ...core.DBExecutor) (student.Grade, error) {
	q := `WITH g AS (
			INSERT INTO grade (student_id, subject_id, marks_obtained, total_marks, percentage, grade, exam_name, exam_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (student_id, subject_id, exam_name) DO UPDATE SET
				marks_obtained = EXCLUDED.marks_obtained, total_marks = EXCLUDED.total_marks, percentage = EXCLUDED.percentage,
				grade = EXCLUDED.grade, exam_date = EXCLUDED.exam_date, updated_at = EXCLUDED.updated_at
			RETURNING *
		)
		SELECT ` + gradeColumns + ` FROM g JOIN subject s ON s.id = g.subject_id`

	var stored student.Grade
	err := sqlx.GetContext(ctx, repo.getExec(exec), &stored, q,
		g.StudentID, g.SubjectID, g.MarksObtained, g.TotalMarks, g.Percentage, g.Grade, g.ExamName, g.ExamDate,
		g.CreatedAt.UTC(), g.UpdatedAt.UTC())
	if err != nil {
		if pqErrCode(err) == foreignKeyViolation {
			return student.Grade{}, student.ErrNotFound
		}
		return student.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return stored, nil
}

func (repo studentRepository) QueryLatestGrades(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]student.Grade, error) {
	q := `SELECT * FROM (
			SELECT DISTINCT ON (g.subject_id) ` + gradeColumns + `
			FROM grade g JOIN subject s ON s.id = g.subject_id
			WHERE g.student_id = $1
			ORDER BY g.subject_id, g.exam_date DESC, g.id DESC
		) latest
		ORDER BY subject_name, subject_id`

	grades := make([]student.Grade, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &grades, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting latest grades")
	}
	return grades, nil
}
