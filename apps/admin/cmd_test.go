package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/tests"
)

func setup(t *testing.T) (*testutil.App, *commandLine, *bytes.Buffer) {
	app := testutil.NewApp(t)
	out := new(bytes.Buffer)
	return app, &commandLine{
		conf:          app.Conf,
		out:           out,
		validate:      app.Validate,
		parentSvc:     app.ParentSvc,
		studentSvc:    app.StudentSvc,
		attendanceSvc: app.AttendanceSvc,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.wantErrStr)
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_root(t *testing.T) {
	_, cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol"`},
		{name: "group without subcommand", args: []string{"parent"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	_, cli, _ := setup(t)

	origRunFunc := gooseRunFunc
	defer func() { gooseRunFunc = origRunFunc }()

	gooseRunFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "absence_reason", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
}

func Test_commandLine_records(t *testing.T) {
	app, cli, out := setup(t)
	ctx := context.Background()

	runCLITests(t, cli, []cliTest{
		{name: "parent: no name", args: []string{"parent", "add"}, wantErrStr: "Error:Field validation"},
		{name: "parent", args: []string{"parent", "add", "--name", "Furaha Mwamba", "--email", "Furaha@Example.com"}},
	})
	assert.Contains(t, out.String(), "parent 1 created")

	p, err := app.ParentSvc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "furaha@example.com", p.Email)
	parentID := strconv.FormatInt(p.ID, 10)

	runCLITests(t, cli, []cliTest{
		{name: "student: unknown flag", args: []string{"student", "add", "--lol"}, wantErrStr: "unknown flag: --lol"},
		{name: "student: missing names", args: []string{"student", "add", "--parent", parentID, "--student-id", "S001"}, wantErrStr: "Error:Field validation"},
		{name: "student", args: []string{"student", "add", "--parent", parentID, "--student-id", "S001", "--first-name", "Amani", "--last-name", "Bisimwa", "--dob", "2012-05-14"}},
		{name: "student: duplicate", args: []string{"student", "add", "--parent", parentID, "--student-id", "S001", "--first-name", "Neema", "--last-name", "Bisimwa"}, wantErrStr: "already exists"},
	})

	children, err := app.StudentSvc.ListChildren(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	studentID := strconv.FormatInt(children[0].ID, 10)

	runCLITests(t, cli, []cliTest{
		{name: "subject: missing code", args: []string{"subject", "add", "--name", "Mathematics"}, wantErr: errHelp},
		{name: "subject", args: []string{"subject", "add", "--code", "MATH", "--name", "Mathematics"}},
		{name: "grade: unknown subject", args: []string{"grade", "add", "--student", studentID, "--subject", "LOL", "--marks", "80", "--exam", "Final"}, wantErr: student.ErrSubjectNotFound},
		{name: "grade", args: []string{"grade", "add", "--student", studentID, "--subject", "MATH", "--marks", "80", "--exam", "Final", "--date", "2024-03-10"}},
		{name: "attendance: bad status", args: []string{"attendance", "record", "--student", studentID, "--date", "2024-02-02", "--status", "sick"}, wantErrStr: "Error:Field validation"},
		{name: "attendance: unknown student", args: []string{"attendance", "record", "--student", "9999", "--date", "2024-02-02", "--status", "absent"}, wantErrStr: "not found"},
		{name: "attendance", args: []string{"attendance", "record", "--student", studentID, "--date", "2024-02-02", "--status", "Absent", "--remarks", "sick"}},
	})
	assert.Contains(t, out.String(), "student "+studentID+": absent on 2024-02-02")

	profile, err := app.StudentSvc.Profile(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "2012-05-14", profile.PersonalInfo.DateOfBirth)
	if assert.Len(t, profile.AcademicInfo.Grades, 1) {
		assert.Equal(t, "A", profile.AcademicInfo.Grades[0].Grade, "derived from the marks")
	}
	assert.Zero(t, profile.AcademicInfo.AttendancePercentage)

	view, err := app.Inbox.List(ctx, p.ID)
	require.NoError(t, err)
	if assert.Len(t, view.Notifications, 1) {
		assert.Equal(t, "2024-02-02", view.Notifications[0].Date)
	}

	report, err := app.AttendanceSvc.MonthlyReport(ctx, p.ID, attendance.ReportQuery{Year: null.IntFrom(2024), Month: null.IntFrom(2)})
	require.NoError(t, err)
	assert.Equal(t, "sick", report.Records[1].Remarks.String)
}

func Test_commandLine_token(t *testing.T) {
	app, cli, out := setup(t)
	p := testutil.CreateParent(t, app.ParentRepo, "Furaha Mwamba", "")

	runCLITests(t, cli, []cliTest{
		{name: "no parent", args: []string{"token"}, wantErr: errHelp},
		{name: "unknown parent", args: []string{"token", "--parent", "9999"}, wantErrStr: "parent profile not found"},
	})

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "token", "--parent", strconv.FormatInt(p.ID, 10)}))
	token := strings.TrimSpace(out.String())
	assert.Len(t, strings.Split(token, "."), 3, "a signed JWT")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "token", "--staff"}))
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}
