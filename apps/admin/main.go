package main

import (
	"fmt"
	"os"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/fs"
	"github.com/trezcool/wazazi/services/email"
	"github.com/trezcool/wazazi/services/logger"
	"github.com/trezcool/wazazi/storage/database"
	"github.com/trezcool/wazazi/storage/database/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(os.Stderr, conf), conf).WithComponent("admin")
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)

	parentRepo := pgrepos.NewParentRepository(db)
	attRepo := pgrepos.NewAttendanceRepository(db)
	studentSvc := student.NewService(pgrepos.NewStudentRepository(db), attRepo)
	generator := notification.NewGenerator(pgrepos.NewNotificationRepository(db), parentRepo, mailSvc, logger)

	// start CLI
	cli := commandLine{
		conf:          conf,
		db:            db,
		validate:      core.NewValidator(core.NewTranslator()),
		parentSvc:     parent.NewService(parentRepo),
		studentSvc:    studentSvc,
		attendanceSvc: attendance.NewService(conf, attRepo, studentSvc, generator, database.NewTransactor(db)),
	}
	err = cli.run(os.Args)
	emailsvc.Wait()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
