package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/wazazi/apps/api/echo"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/tests"
)

func TestNotificationAPI(t *testing.T) {
	app, srv := setup(t)
	ctx := context.Background()

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")
	other := testutil.CreateParent(t, app.ParentRepo, "Other Parent", "")
	childless := testutil.CreateParent(t, app.ParentRepo, "Childless Parent", "")
	stu := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Amani", "Bisimwa")
	stranger := testutil.CreateStudent(t, app.StudentSvc, other.ID, "S002", "Baraka", "Kasongo")
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-02-01", attendance.StatusAbsent)
	testutil.RecordAttendance(t, app.AttendanceSvc, stu.ID, "2024-02-02", attendance.StatusAbsent)
	testutil.RecordAttendance(t, app.AttendanceSvc, stranger.ID, "2024-02-02", attendance.StatusAbsent)

	token := getToken(t, app, p.ID)

	inbox, err := app.Inbox.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 2)
	own := inbox.Notifications[0]

	strangerInbox, err := app.Inbox.List(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, strangerInbox.Notifications, 1)
	foreign := strangerInbox.Notifications[0]

	notFound := marchallObj(t, httpErr{Error: notification.ErrNotFound.Error()})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "list: no token",
			method:   http.MethodGet,
			path:     "/api/students/notifications",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/api/students/notifications",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, inbox),
		},
		{
			name:     "list: no children",
			method:   http.MethodGet,
			path:     "/api/students/notifications",
			token:    getToken(t, app, childless.ID),
			wantCode: http.StatusOK,
			wantData: []byte(`{"notifications": [], "unread_count": 0}`),
		},
		{
			name:     "mark read: no token",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/students/notifications/%d/read", own.ID),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "mark read: another parent's notification",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/students/notifications/%d/read", foreign.ID),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "mark read: unknown notification",
			method:   http.MethodPost,
			path:     "/api/students/notifications/9999/read",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "mark read: malformed ID",
			method:   http.MethodPost,
			path:     "/api/students/notifications/abc/read",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "mark read",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/students/notifications/%d/read", own.ID),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, MessageResponse{Message: "Notification marked as read"}),
		},
		{
			name:     "mark read: twice",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/students/notifications/%d/read", own.ID),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, MessageResponse{Message: "Notification marked as read"}),
		},
	})

	inbox, err = app.Inbox.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inbox.UnreadCount)
	assert.True(t, inbox.Notifications[0].IsRead)

	strangerInbox, err = app.Inbox.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, strangerInbox.UnreadCount, "foreign notification left untouched")
}
