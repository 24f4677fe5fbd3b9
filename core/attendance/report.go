package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/student"
)

type (
	MonthlyReport struct {
		StudentName string     `json:"student_name"`
		StudentID   string     `json:"student_id"`
		ClassName   string     `json:"class_name"`
		Section     string     `json:"section"`
		Month       int        `json:"month"`
		Year        int        `json:"year"`
		Summary     Summary    `json:"summary"`
		Records     []DayEntry `json:"records"`
	}

	// Summary counts only the days that have a record.
	Summary struct {
		TotalPresent         int     `json:"total_present"` // present or late
		TotalAbsent          int     `json:"total_absent"`
		TotalLate            int     `json:"total_late"`
		AttendancePercentage float64 `json:"attendance_percentage"`
		TotalDays            int     `json:"total_days"`
	}

	// DayEntry is one calendar day of the report; Status and Remarks are null when the day has no record.
	DayEntry struct {
		Date    string      `json:"date"`
		Status  null.String `json:"status"`
		Remarks null.String `json:"remarks"`
	}
)

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthlyReport lays the student's records over every day of the month.
// Records outside the month are ignored.
func BuildMonthlyReport(stu student.Student, year int, month time.Month, records []Record) MonthlyReport {
	byDay := make(map[int]Record, len(records))
	for _, rec := range records {
		if rec.Date.Year() == year && rec.Date.Month() == month {
			byDay[rec.Date.Day()] = rec
		}
	}

	var summary Summary
	days := DaysIn(year, month)
	entries := make([]DayEntry, 0, days)
	for day := 1; day <= days; day++ {
		entry := DayEntry{Date: core.Date(year, month, day).Format(core.DateLayout)}
		if rec, ok := byDay[day]; ok {
			entry.Status = null.StringFrom(rec.Status)
			entry.Remarks = null.StringFrom(rec.Remarks)
			summary.add(rec)
		}
		entries = append(entries, entry)
	}
	summary.AttendancePercentage = core.Percentage(float64(summary.TotalPresent), float64(summary.TotalDays))

	return MonthlyReport{
		StudentName: stu.FullName(),
		StudentID:   stu.StudentID,
		ClassName:   stu.ClassName,
		Section:     stu.Section,
		Month:       int(month),
		Year:        year,
		Summary:     summary,
		Records:     entries,
	}
}

func (s *Summary) add(rec Record) {
	s.TotalDays++
	switch rec.Status {
	case StatusPresent:
		s.TotalPresent++
	case StatusLate:
		s.TotalPresent++
		s.TotalLate++
	case StatusAbsent:
		s.TotalAbsent++
	}
}
