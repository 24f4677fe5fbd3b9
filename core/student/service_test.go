package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/tests"
)

func TestService_GetChild(t *testing.T) {
	app := testutil.NewApp(t)
	ctx := context.Background()

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")
	other := testutil.CreateParent(t, app.ParentRepo, "Other Parent", "")
	inactive := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Imani", "Bisimwa", student.StatusInactive)
	first := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S002", "Amani", "Bisimwa")
	second := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S003", "Neema", "Bisimwa")
	stranger := testutil.CreateStudent(t, app.StudentSvc, other.ID, "S004", "Baraka", "Kasongo")

	tests := []struct {
		name     string
		parentID int64
		id       int64
		want     int64
		wantErr  error
	}{
		{name: "defaults to first active child", parentID: p.ID, want: first.ID},
		{name: "explicit child", parentID: p.ID, id: second.ID, want: second.ID},
		{name: "inactive child", parentID: p.ID, id: inactive.ID, wantErr: student.ErrNotFound},
		{name: "another parent's child", parentID: p.ID, id: stranger.ID, wantErr: student.ErrNotFound},
		{name: "unknown child", parentID: p.ID, id: 9999, wantErr: student.ErrNotFound},
		{name: "parent without active children", parentID: 9999, wantErr: student.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stu, err := app.StudentSvc.GetChild(ctx, tt.parentID, tt.id)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, stu.ID)
		})
	}

	children, err := app.StudentSvc.ListChildren(ctx, p.ID)
	require.NoError(t, err)
	if assert.Len(t, children, 2) {
		assert.Equal(t, first.ID, children[0].ID)
		assert.Equal(t, second.ID, children[1].ID)
	}
}

func TestService_Create(t *testing.T) {
	app := testutil.NewApp(t)
	ctx := context.Background()
	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")

	stu, err := app.StudentSvc.Create(ctx, student.NewStudent{
		ParentID:    p.ID,
		StudentID:   "S001",
		FirstName:   "Amani",
		LastName:    "Bisimwa",
		DateOfBirth: "2012-05-14",
	})
	require.NoError(t, err)
	assert.Equal(t, student.StatusActive, stu.Status)
	assert.Equal(t, "2012-05-14", stu.DateOfBirth.Format(core.DateLayout))

	t.Run("duplicate student ID", func(t *testing.T) {
		_, err := app.StudentSvc.Create(ctx, student.NewStudent{ParentID: p.ID, StudentID: "S001", FirstName: "Neema", LastName: "Bisimwa"})
		var vErr *core.ValidationError
		if assert.ErrorAs(t, err, &vErr) {
			assert.Equal(t, "student_id", vErr.Fields[0].Field)
		}
	})

	t.Run("invalid date of birth", func(t *testing.T) {
		_, err := app.StudentSvc.Create(ctx, student.NewStudent{ParentID: p.ID, StudentID: "S002", FirstName: "Neema", LastName: "Bisimwa", DateOfBirth: "14/05/2012"})
		var vErr *core.ValidationError
		if assert.ErrorAs(t, err, &vErr) {
			assert.Equal(t, "date_of_birth", vErr.Fields[0].Field)
		}
	})
}

func TestNewStudent_Validate(t *testing.T) {
	app := testutil.NewApp(t)

	ns := student.NewStudent{ParentID: 1, StudentID: " S001 ", FirstName: "Amani", LastName: "Bisimwa", Email: " Amani@Example.COM "}
	require.NoError(t, ns.Validate(app.Validate))
	assert.Equal(t, "S001", ns.StudentID)
	assert.Equal(t, "amani@example.com", ns.Email)

	bad := student.NewStudent{ParentID: 1, StudentID: "S001", FirstName: "  ", LastName: "Bisimwa", Gender: "X"}
	assert.Error(t, bad.Validate(app.Validate))
}

func TestService_Profile(t *testing.T) {
	app := testutil.NewApp(t)
	ctx := context.Background()

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")
	stu := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Amani", "Bisimwa")

	t.Run("empty profile", func(t *testing.T) {
		profile, err := app.StudentSvc.Profile(ctx, p.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, profile.AcademicInfo.Grades)
		assert.Zero(t, profile.AcademicInfo.AttendancePercentage)
		assert.Equal(t, "Class 5", profile.AcademicInfo.ClassName)
	})

	testutil.CreateGrade(t, app.StudentSvc, stu.ID, "MATH", "Mathematics", 40, 100, "Mid-term", "2024-01-10")
	testutil.CreateGrade(t, app.StudentSvc, stu.ID, "MATH", "Mathematics", 80, 100, "Final", "2024-03-10")
	testutil.CreateGrade(t, app.StudentSvc, stu.ID, "ENG", "English", 45, 50, "Final", "2024-03-11")
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-03-01", attendance.StatusPresent)
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-03-04", attendance.StatusLate)
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-03-05", attendance.StatusAbsent)

	profile, err := app.StudentSvc.Profile(ctx, p.ID, stu.ID)
	require.NoError(t, err)

	info := profile.AcademicInfo
	assert.Equal(t, 66.67, info.AttendancePercentage)
	require.Len(t, info.Grades, 2, "only the latest grade of each subject")
	assert.Equal(t, "English", info.Grades[0].Subject)
	assert.Equal(t, "Mathematics", info.Grades[1].Subject)
	assert.Equal(t, "Final", info.Grades[1].ExamName)
	assert.Equal(t, 125.0, info.TotalMarksObtained)
	assert.Equal(t, 150.0, info.TotalMarks)
	assert.Equal(t, 83.33, info.OverallPercentage)
	assert.Equal(t, "A", info.OverallGrade)

	t.Run("another parent's child", func(t *testing.T) {
		other := testutil.CreateParent(t, app.ParentRepo, "Other Parent", "")
		_, err := app.StudentSvc.Profile(ctx, other.ID, stu.ID)
		assert.Equal(t, student.ErrNotFound, err)
	})
}
