package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/fs"
	"github.com/trezcool/wazazi/services/email"
	"github.com/trezcool/wazazi/services/logger"
	"github.com/trezcool/wazazi/storage/database/inmem"
)

// App is the whole core wired on an in-memory database.
type App struct {
	Conf       *core.Config
	Logger     *logsvc.RollbarLogger
	Validate   *validator.Validate
	Translator ut.Translator
	MailSvc    core.EmailService

	DB               *inmemdb.DB
	ParentRepo       parent.Repository
	StudentRepo      student.Repository
	AttendanceRepo   attendance.Repository
	NotificationRepo notification.Repository

	ParentSvc     *parent.Service
	StudentSvc    *student.Service
	AttendanceSvc *attendance.Service
	Generator     *notification.Generator
	Inbox         *notification.Inbox
}

// NewConfig returns the app config in test mode, with debug output off.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	return conf
}

// NewLogger returns a logger that neither reports nor prints.
func NewLogger(conf *core.Config) *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)
	return logger
}

func NewApp(t *testing.T) *App {
	t.Helper()

	conf := NewConfig()
	logger := NewLogger(conf)
	translator := core.NewTranslator()
	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)
	emailsvc.ResetSentMessages()

	db := inmemdb.Open()
	a := &App{
		Conf:             conf,
		Logger:           logger,
		Validate:         core.NewValidator(translator),
		Translator:       translator,
		MailSvc:          emailsvc.NewConsoleServiceMock(conf, logger),
		DB:               db,
		ParentRepo:       inmemdb.NewParentRepository(db),
		StudentRepo:      inmemdb.NewStudentRepository(db),
		NotificationRepo: inmemdb.NewNotificationRepository(db),
	}
	attRepo := inmemdb.NewAttendanceRepository(db)
	a.AttendanceRepo = attRepo

	a.ParentSvc = parent.NewService(a.ParentRepo)
	a.StudentSvc = student.NewService(a.StudentRepo, attRepo)
	a.Generator = notification.NewGenerator(a.NotificationRepo, a.ParentRepo, a.MailSvc, logger)
	a.Inbox = notification.NewInbox(a.NotificationRepo, a.StudentSvc)
	a.AttendanceSvc = attendance.NewService(conf, attRepo, a.StudentSvc, a.Generator, db)
	return a
}

func CreateParent(t *testing.T, repo parent.Repository, name, email string) parent.Parent {
	t.Helper()

	p, err := repo.CreateParent(context.Background(), parent.Parent{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateParent() failed: %v", err)
	}
	return p
}

func CreateStudent(t *testing.T, svc *student.Service, parentID int64, studentID, firstName, lastName string, status ...string) student.Student {
	t.Helper()

	ns := student.NewStudent{
		ParentID:  parentID,
		StudentID: studentID,
		FirstName: firstName,
		LastName:  lastName,
		ClassName: "Class 5",
		Section:   "B",
	}
	if len(status) > 0 {
		ns.Status = status[0]
	}
	stu, err := svc.Create(context.Background(), ns)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateGrade(t *testing.T, svc *student.Service, studentID int64, subjectCode, subjectName string, obtained, total float64, exam, examDate string) student.Grade {
	t.Helper()

	ctx := context.Background()
	if _, err := svc.AddSubject(ctx, subjectName, subjectCode, ""); err != nil {
		t.Fatalf("AddSubject() failed: %v", err)
	}
	g, err := svc.AddGrade(ctx, student.NewGrade{
		StudentID:     studentID,
		SubjectCode:   subjectCode,
		MarksObtained: obtained,
		TotalMarks:    total,
		Grade:         student.LetterGrade(core.Percentage(obtained, total)),
		ExamName:      exam,
		ExamDate:      examDate,
	})
	if err != nil {
		t.Fatalf("AddGrade() failed: %v", err)
	}
	return g
}

func RecordAttendance(t *testing.T, svc *attendance.Service, studentID int64, date, status string, remarks ...string) attendance.Record {
	t.Helper()

	nr := attendance.NewRecord{StudentID: studentID, Date: date, Status: status}
	if len(remarks) > 0 {
		nr.Remarks = remarks[0]
	}
	rec, err := svc.Record(context.Background(), nr)
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	return rec
}
