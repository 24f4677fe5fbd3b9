package logsvc

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/parent"
)

// RollbarLogger reports to Rollbar and mirrors every entry to a zerolog logger.
type RollbarLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewZerolog returns a console logger in debug mode, a JSON logger otherwise.
func NewZerolog(out io.Writer, conf *core.Config) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("app", conf.AppName).Logger()
}

func NewRollbarLogger(zl zerolog.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{zl: zl}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// WithComponent returns a logger tagging its console entries with component.
func (l RollbarLogger) WithComponent(component string) *RollbarLogger {
	return &RollbarLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// expected fmt: msg | error, map[string]interface{}, parent.Parent
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var personSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set logged in Parent
		if p, ok := arg.(parent.Parent); ok {
			if !personSet { // only set one Parent
				rollbar.SetPerson(strconv.FormatInt(p.ID, 10), p.Name, p.Email)
				personSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(ev *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case map[string]interface{}:
			ev = ev.Fields(a)
		case parent.Parent:
			ev = ev.Int64("parent_id", a.ID)
		default:
			ev = ev.Interface("extra", a)
		}
	}
	ev.Msg(msg)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(l.zl.Debug(), msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(l.zl.Info(), msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(l.zl.Warn(), msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(l.zl.Error(), msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.print(l.zl.Fatal(), msg, args)
}
