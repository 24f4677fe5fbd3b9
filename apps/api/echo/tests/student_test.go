package tests

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/tests"
)

func TestHome(t *testing.T) {
	_, srv := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "Welcome to Wazazi API!" {
		t.Errorf("home: code = %d; body = %q", rec.Code, rec.Body.String())
	}
}

func TestStudentAPI(t *testing.T) {
	app, srv := setup(t)

	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "furaha@example.com")
	other := testutil.CreateParent(t, app.ParentRepo, "Other Parent", "")
	stu := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S001", "Amani", "Bisimwa")
	sibling := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S002", "Neema", "Bisimwa")
	inactive := testutil.CreateStudent(t, app.StudentSvc, p.ID, "S003", "Imani", "Bisimwa", student.StatusInactive)
	stranger := testutil.CreateStudent(t, app.StudentSvc, other.ID, "S004", "Baraka", "Kasongo")
	testutil.CreateGrade(t, app.StudentSvc, stu.ID, "MATH", "Mathematics", 80, 100, "Final", "2024-03-10")

	token := getToken(t, app, p.ID)
	ghostToken := getToken(t, app, 9999)
	childlessToken := getToken(t, app, testutil.CreateParent(t, app.ParentRepo, "Childless Parent", "").ID)

	profile, err := app.StudentSvc.Profile(context.Background(), p.ID, stu.ID)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	notFound := marchallObj(t, httpErr{Error: student.ErrNotFound.Error()})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "children: no token",
			method:   http.MethodGet,
			path:     "/api/students/children",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "children: invalid token",
			method:   http.MethodGet,
			path:     "/api/students/children",
			token:    "not-a-jwt",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "children: unknown parent",
			method:   http.MethodGet,
			path:     "/api/students/children",
			token:    ghostToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "parent profile not found"}),
		},
		{
			name:     "children: active only",
			method:   http.MethodGet,
			path:     "/api/students/children",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, student.NewSummaries([]student.Student{stu, sibling})),
		},
		{
			name:     "children: none",
			method:   http.MethodGet,
			path:     "/api/students/children",
			token:    childlessToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "profile: first child by default",
			method:   http.MethodGet,
			path:     "/api/students/profile",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, profile),
		},
		{
			name:     "profile: explicit child",
			method:   http.MethodGet,
			path:     "/api/students/profile?student=" + strconv.FormatInt(stu.ID, 10),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, profile),
		},
		{
			name:     "profile: another parent's child",
			method:   http.MethodGet,
			path:     "/api/students/profile?student=" + strconv.FormatInt(stranger.ID, 10),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "profile: malformed student",
			method:   http.MethodGet,
			path:     "/api/students/profile?student=abc",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"student": "student must be a positive integer"}`),
		},
		{
			name:     "profile: no children",
			method:   http.MethodGet,
			path:     "/api/students/profile",
			token:    childlessToken,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "detail",
			method:   http.MethodGet,
			path:     "/api/students/" + strconv.FormatInt(sibling.ID, 10),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sibling),
		},
		{
			name:     "detail: inactive child",
			method:   http.MethodGet,
			path:     "/api/students/" + strconv.FormatInt(inactive.ID, 10),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "detail: another parent's child",
			method:   http.MethodGet,
			path:     "/api/students/" + strconv.FormatInt(stranger.ID, 10),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "detail: malformed ID",
			method:   http.MethodGet,
			path:     "/api/students/abc",
			token:    token,
			wantCode: http.StatusNotFound,
		},
	})
}
