package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wazazi/core"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
)

// Genders
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

var Statuses = []string{StatusActive, StatusInactive, StatusGraduated}

type Student struct {
	ID            int64     `json:"id" db:"id"`
	ParentID      int64     `json:"-" db:"parent_id"`
	StudentID     string    `json:"student_id" db:"student_id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	DateOfBirth   time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender        string    `json:"gender" db:"gender"`
	ContactNumber string    `json:"contact_number" db:"contact_number"`
	Email         string    `json:"email" db:"email"`
	Address       string    `json:"address" db:"address"`
	ClassName     string    `json:"class_name" db:"class_name"`
	Section       string    `json:"section" db:"section"`
	RollNumber    string    `json:"roll_number" db:"roll_number"`
	AdmissionDate time.Time `json:"admission_date" db:"admission_date"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

type Subject struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Grade is a student's result for one subject in one exam.
// It is unique per (student, subject, exam name).
type Grade struct {
	ID            int64     `db:"id"`
	StudentID     int64     `db:"student_id"`
	SubjectID     int64     `db:"subject_id"`
	SubjectName   string    `db:"subject_name"` // read-only, joined from subject
	MarksObtained float64   `db:"marks_obtained"`
	TotalMarks    float64   `db:"total_marks"`
	Percentage    float64   `db:"percentage"`
	Grade         string    `db:"grade"`
	ExamName      string    `db:"exam_name"`
	ExamDate      time.Time `db:"exam_date"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	ParentID      int64  `json:"parent" validate:"required,min=1"`
	StudentID     string `json:"student_id" validate:"required,notblank,max=20"`
	FirstName     string `json:"first_name" validate:"required,notblank,max=100"`
	LastName      string `json:"last_name" validate:"required,notblank,max=100"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender        string `json:"gender" validate:"omitempty,oneof=M F O"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=15"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
	ClassName     string `json:"class_name" validate:"omitempty,max=50"`
	Section       string `json:"section" validate:"omitempty,max=10"`
	RollNumber    string `json:"roll_number" validate:"omitempty,max=20"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,isodate"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Gender = core.CleanString(ns.Gender)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.Section = core.CleanString(ns.Section)
	ns.Status = core.CleanString(ns.Status, true /* lower */)
	return validate.Struct(ns)
}

// NewGrade contains information needed to record an exam result.
type NewGrade struct {
	StudentID     int64   `json:"student" validate:"required,min=1"`
	SubjectCode   string  `json:"subject" validate:"required,notblank"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0,ltefield=TotalMarks"`
	TotalMarks    float64 `json:"total_marks" validate:"gt=0"`
	Grade         string  `json:"grade" validate:"required,max=2"`
	ExamName      string  `json:"exam_name" validate:"required,notblank,max=100"`
	ExamDate      string  `json:"exam_date" validate:"omitempty,isodate"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.SubjectCode = core.CleanString(ng.SubjectCode)
	ng.Grade = core.CleanString(ng.Grade)
	ng.ExamName = core.CleanString(ng.ExamName)
	return validate.Struct(ng)
}

type QueryFilter struct {
	ParentID int64
	Status   string
}

// GetFilter identifies a single Student. Zero fields are ignored.
type GetFilter struct {
	ID       int64
	ParentID int64
	Status   string
}
