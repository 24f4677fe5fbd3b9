package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers the /debug/pprof handlers
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/wazazi/apps/api/echo"
	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/fs"
	"github.com/trezcool/wazazi/metrics"
	"github.com/trezcool/wazazi/services/email"
	"github.com/trezcool/wazazi/services/logger"
	"github.com/trezcool/wazazi/storage/database"
	"github.com/trezcool/wazazi/storage/database/inmem"
	"github.com/trezcool/wazazi/storage/database/postgres"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	baseLogger := logsvc.NewRollbarLogger(logsvc.NewZerolog(os.Stdout, conf), conf)
	baseLogger.Enable(!conf.Debug)
	logger := baseLogger.WithComponent("api")
	dbLogger := baseLogger.WithComponent("db")

	// set up DB
	store, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = store.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	defer emailsvc.Wait()

	parentSvc := parent.NewService(store.parents)
	studentSvc := student.NewService(store.students, store.attendance)
	generator := notification.NewGenerator(store.notifications, store.parents, mailSvc, baseLogger.WithComponent("notifications"))
	attendanceSvc := attendance.NewService(conf, store.attendance, studentSvc, generator, store.tx)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)

	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.DefaultServeMux.Handle("/metrics", metrics.Handler())

	go func() {
		logger.Info("Debug server listening on " + conf.Server.DebugHost)
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		ParentSvc:     parentSvc,
		StudentSvc:    studentSvc,
		AttendanceSvc: attendanceSvc,
		Inbox:         notification.NewInbox(store.notifications, studentSvc),
		Validate:      validate,
		Translator:    translator,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

type attendanceStore interface {
	attendance.Repository
	student.AttendanceCounter
}

// repoSet holds the repositories of the configured database engine.
type repoSet struct {
	parents       parent.Repository
	students      student.Repository
	attendance    attendanceStore
	notifications notification.Repository
	tx            core.Transactor
	close         func() error
}

// setUpStore opens the postgres database, or an empty in-memory one when the engine is "inmem".
func setUpStore(conf *core.Config) (repoSet, error) {
	if conf.Database.Engine == "inmem" {
		db := inmemdb.Open()
		return repoSet{
			parents:       inmemdb.NewParentRepository(db),
			students:      inmemdb.NewStudentRepository(db),
			attendance:    inmemdb.NewAttendanceRepository(db),
			notifications: inmemdb.NewNotificationRepository(db),
			tx:            db,
			close:         func() error { return nil },
		}, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return repoSet{}, err
	}
	return repoSet{
		parents:       pgrepos.NewParentRepository(db),
		students:      pgrepos.NewStudentRepository(db),
		attendance:    pgrepos.NewAttendanceRepository(db),
		notifications: pgrepos.NewNotificationRepository(db),
		tx:            database.NewTransactor(db),
		close:         db.Close,
	}, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
