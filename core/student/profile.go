package student

import "github.com/trezcool/wazazi/core"

type (
	Profile struct {
		PersonalInfo PersonalInfo `json:"personal_info"`
		AcademicInfo AcademicInfo `json:"academic_info"`
	}

	PersonalInfo struct {
		StudentID     string `json:"student_id"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		DateOfBirth   string `json:"date_of_birth"`
		Gender        string `json:"gender"`
		ContactNumber string `json:"contact_number"`
		Email         string `json:"email"`
		Address       string `json:"address"`
		Status        string `json:"status"`
	}

	AcademicInfo struct {
		ClassName            string      `json:"class_name"`
		Section              string      `json:"section"`
		RollNumber           string      `json:"roll_number"`
		AttendancePercentage float64     `json:"attendance_percentage"`
		Grades               []GradeView `json:"grades"`
		OverallPercentage    float64     `json:"overall_percentage"`
		OverallGrade         string      `json:"overall_grade"`
		TotalMarksObtained   float64     `json:"total_marks_obtained"`
		TotalMarks           float64     `json:"total_marks"`
	}

	GradeView struct {
		Subject       string  `json:"subject"`
		MarksObtained float64 `json:"marks_obtained"`
		TotalMarks    float64 `json:"total_marks"`
		Grade         string  `json:"grade"`
		Percentage    float64 `json:"percentage"`
		ExamName      string  `json:"exam_name"`
		ExamDate      string  `json:"exam_date"`
	}

	// Summary is the short form of a Student, used when listing a parent's children.
	Summary struct {
		ID        int64  `json:"id"`
		StudentID string `json:"student_id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		ClassName string `json:"class_name"`
		Section   string `json:"section"`
		Status    string `json:"status"`
	}
)

// letter grades by minimum overall percentage, highest first
var letterGrades = []struct {
	min    float64
	letter string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

// LetterGrade maps an overall percentage to its letter grade.
func LetterGrade(pct float64) string {
	for _, lg := range letterGrades {
		if pct >= lg.min {
			return lg.letter
		}
	}
	return "F"
}

// NewProfile builds the academic profile from the latest grade of each subject.
func NewProfile(stu Student, latestGrades []Grade, attendancePct float64) Profile {
	views := make([]GradeView, 0, len(latestGrades))
	var obtained, total float64
	for _, g := range latestGrades {
		obtained += g.MarksObtained
		total += g.TotalMarks
		views = append(views, GradeView{
			Subject:       g.SubjectName,
			MarksObtained: g.MarksObtained,
			TotalMarks:    g.TotalMarks,
			Grade:         g.Grade,
			Percentage:    g.Percentage,
			ExamName:      g.ExamName,
			ExamDate:      g.ExamDate.Format(core.DateLayout),
		})
	}
	overall := core.Percentage(obtained, total)

	return Profile{
		PersonalInfo: PersonalInfo{
			StudentID:     stu.StudentID,
			FirstName:     stu.FirstName,
			LastName:      stu.LastName,
			DateOfBirth:   stu.DateOfBirth.Format(core.DateLayout),
			Gender:        stu.Gender,
			ContactNumber: stu.ContactNumber,
			Email:         stu.Email,
			Address:       stu.Address,
			Status:        stu.Status,
		},
		AcademicInfo: AcademicInfo{
			ClassName:            stu.ClassName,
			Section:              stu.Section,
			RollNumber:           stu.RollNumber,
			AttendancePercentage: attendancePct,
			Grades:               views,
			OverallPercentage:    overall,
			OverallGrade:         LetterGrade(overall),
			TotalMarksObtained:   core.Round2(obtained),
			TotalMarks:           core.Round2(total),
		},
	}
}

func NewSummary(stu Student) Summary {
	return Summary{
		ID:        stu.ID,
		StudentID: stu.StudentID,
		FirstName: stu.FirstName,
		LastName:  stu.LastName,
		ClassName: stu.ClassName,
		Section:   stu.Section,
		Status:    stu.Status,
	}
}

func NewSummaries(students []Student) []Summary {
	summaries := make([]Summary, 0, len(students))
	for _, stu := range students {
		summaries = append(summaries, NewSummary(stu))
	}
	return summaries
}
