package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	. "github.com/trezcool/wazazi/apps/api/echo"
	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/services/email"
	"github.com/trezcool/wazazi/tests"
)

func TestAttendanceAPI_monthlyReport(t *testing.T) {
	app, srv := setup(t)

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")
	other := testutil.CreateParent(t, app.ParentRepo, "Other Parent", "")
	stu := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Amani", "Bisimwa")
	stranger := testutil.CreateStudent(t, app.StudentSvc, other.ID, "S002", "Baraka", "Kasongo")
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-02-01", attendance.StatusPresent)
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-02-02", attendance.StatusAbsent, "sick")

	token := getToken(t, app, p.ID)
	feb, err := app.AttendanceSvc.MonthlyReport(context.Background(), p.ID, attendance.ReportQuery{Year: null.IntFrom(2024), Month: null.IntFrom(2)})
	require.NoError(t, err)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=2",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "leap february",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=2",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, feb),
		},
		{
			name:     "explicit child",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=2&student=" + strconv.FormatInt(stu.ID, 10),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, feb),
		},
		{
			name:     "month out of range",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=13",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"month": "month must be between 1 and 12"}`),
		},
		{
			name:     "month zero",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=0",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"month": "month must be between 1 and 12"}`),
		},
		{
			name:     "year zero",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=0&month=2",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"year": "year must be between 1970 and 2100"}`),
		},
		{
			name:     "year and month out of range",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=1800&month=-1",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"month": "month must be between 1 and 12", "year": "year must be between 1970 and 2100"}`),
		},
		{
			name:     "malformed month",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=feb",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"month": "month must be an integer"}`),
		},
		{
			name:     "another parent's child",
			method:   http.MethodGet,
			path:     "/api/students/attendance?year=2024&month=2&student=" + strconv.FormatInt(stranger.ID, 10),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
	})

	t.Run("empty month", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/attendance?year=2023&month=4", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var report attendance.MonthlyReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Len(t, report.Records, 30)
		assert.Equal(t, attendance.Summary{}, report.Summary)
	})
}

func TestAttendanceAPI_record(t *testing.T) {
	app, srv := setup(t)

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "furaha@example.com")
	stu := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Amani", "Bisimwa")
	parentToken := getToken(t, app, p.ID)
	staffToken := getToken(t, app, 0, true /* staff */)
	path := "/api/staff/attendance"

	absent := marchallObj(t, attendance.NewRecord{StudentID: stu.ID, Date: "2024-02-02", Status: attendance.StatusAbsent, Remarks: "sick"})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     path,
			body:     absent,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "parents cannot record",
			method:   http.MethodPost,
			path:     path,
			body:     absent,
			token:    parentToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "invalid status",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"student": 1, "date": "2024-02-02", "status": "sick"}`),
			token:    staffToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid date",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"student": 1, "date": "02/02/2024", "status": "absent"}`),
			token:    staffToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown student",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"student": 9999, "date": "2024-02-02", "status": "absent"}`),
			token:    staffToken,
			wantCode: http.StatusNotFound,
		},
	})

	t.Run("absence creates a notification", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req, rec := newAuthRequest(http.MethodPost, path, staffToken, absent)
			srv.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp RecordResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, stu.ID, resp.Student)
			assert.Equal(t, "2024-02-02", resp.Date)
			assert.Equal(t, attendance.StatusAbsent, resp.Status)
			assert.Equal(t, "sick", resp.Remarks)
		}

		view, err := app.Inbox.List(context.Background(), p.ID)
		require.NoError(t, err)
		require.Len(t, view.Notifications, 1)
		assert.Equal(t, notification.AbsenceMessage(stu, core.Date(2024, time.February, 2)), view.Notifications[0].Message)
		assert.Len(t, emailsvc.SentMessages(), 1)
	})
}
