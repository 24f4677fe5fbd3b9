package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/wazazi/core"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{79.5, "B+"},
		{70, "B+"},
		{60, "B"},
		{50, "C"},
		{40, "D"},
		{39.99, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LetterGrade(tt.pct), "LetterGrade(%v)", tt.pct)
	}
}

func TestNewProfile(t *testing.T) {
	stu := Student{
		ID:          1,
		StudentID:   "S001",
		FirstName:   "Amani",
		LastName:    "Bisimwa",
		DateOfBirth: core.Date(2012, time.May, 14),
		Gender:      GenderFemale,
		ClassName:   "Class 5",
		Section:     "B",
		RollNumber:  "07",
		Status:      StatusActive,
	}

	t.Run("without grades", func(t *testing.T) {
		p := NewProfile(stu, nil, 0)

		assert.Equal(t, "2012-05-14", p.PersonalInfo.DateOfBirth)
		assert.Equal(t, "S001", p.PersonalInfo.StudentID)
		assert.NotNil(t, p.AcademicInfo.Grades)
		assert.Empty(t, p.AcademicInfo.Grades)
		assert.Zero(t, p.AcademicInfo.OverallPercentage)
		assert.Equal(t, "F", p.AcademicInfo.OverallGrade)
	})

	t.Run("totals across subjects", func(t *testing.T) {
		grades := []Grade{
			{SubjectName: "English", MarksObtained: 45, TotalMarks: 50, Percentage: 90, Grade: "A+", ExamName: "Term 1", ExamDate: core.Date(2024, time.March, 1)},
			{SubjectName: "Mathematics", MarksObtained: 70, TotalMarks: 100, Percentage: 70, Grade: "B+", ExamName: "Term 1", ExamDate: core.Date(2024, time.March, 2)},
		}
		p := NewProfile(stu, grades, 66.67)

		info := p.AcademicInfo
		assert.Equal(t, "Class 5", info.ClassName)
		assert.Equal(t, "B", info.Section)
		assert.Equal(t, "07", info.RollNumber)
		assert.Equal(t, 66.67, info.AttendancePercentage)
		assert.Equal(t, 115.0, info.TotalMarksObtained)
		assert.Equal(t, 150.0, info.TotalMarks)
		assert.Equal(t, 76.67, info.OverallPercentage)
		assert.Equal(t, "B+", info.OverallGrade)
		assert.Equal(t, []GradeView{
			{Subject: "English", MarksObtained: 45, TotalMarks: 50, Grade: "A+", Percentage: 90, ExamName: "Term 1", ExamDate: "2024-03-01"},
			{Subject: "Mathematics", MarksObtained: 70, TotalMarks: 100, Grade: "B+", Percentage: 70, ExamName: "Term 1", ExamDate: "2024-03-02"},
		}, info.Grades)
	})
}

func TestNewSummaries(t *testing.T) {
	assert.Equal(t, []Summary{}, NewSummaries(nil))

	got := NewSummaries([]Student{{ID: 3, StudentID: "S003", FirstName: "Neema", LastName: "Bisimwa", Status: StatusActive}})
	assert.Equal(t, []Summary{{ID: 3, StudentID: "S003", FirstName: "Neema", LastName: "Bisimwa", Status: StatusActive}}, got)
}
