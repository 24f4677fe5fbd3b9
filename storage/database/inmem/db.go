package inmemdb

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

type (
	// DB is a map-backed database for tests and demo runs.
	DB struct {
		mu   sync.RWMutex // guards tables
		txMu sync.Mutex   // serializes transactions
		tables
	}

	tables struct {
		pk           int64
		parent       map[int64]parent.Parent
		student      map[int64]student.Student
		subject      map[int64]student.Subject
		grade        map[int64]student.Grade
		attendance   map[int64]attendance.Record
		notification map[int64]notification.Notification
	}
)

var _ core.Transactor = (*DB)(nil) // interface compliance check

func Open() *DB {
	db := new(DB)
	db.tables = newTables()
	return db
}

func newTables() tables {
	return tables{
		parent:       make(map[int64]parent.Parent),
		student:      make(map[int64]student.Student),
		subject:      make(map[int64]student.Subject),
		grade:        make(map[int64]student.Grade),
		attendance:   make(map[int64]attendance.Record),
		notification: make(map[int64]notification.Notification),
	}
}

func (db *DB) nextPK() int64 {
	db.pk++
	return db.pk
}

// Reset drops all rows.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables = newTables()
}

func (db *DB) snapshot() tables {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return tables{
		pk:           db.pk,
		parent:       copyMap(db.parent),
		student:      copyMap(db.student),
		subject:      copyMap(db.subject),
		grade:        copyMap(db.grade),
		attendance:   copyMap(db.attendance),
		notification: copyMap(db.notification),
	}
}

func (db *DB) restore(snap tables) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables = snap
}

// txExec marks repository calls made from inside InTx.
// It never runs SQL: the embedded interface stays nil.
type txExec struct {
	sqlx.ExtContext
}

func inTx(exec []core.DBExecutor) bool {
	if len(exec) == 0 {
		return false
	}
	_, ok := exec[0].(txExec)
	return ok
}

// lockWrite locks the tables for a write and returns the unlock func.
// Writes made outside InTx wait for the open transaction, if any, so its rollback cannot undo them.
func (db *DB) lockWrite(exec []core.DBExecutor) func() {
	if inTx(exec) {
		db.mu.Lock()
		return db.mu.Unlock
	}
	db.txMu.Lock()
	db.mu.Lock()
	return func() {
		db.mu.Unlock()
		db.txMu.Unlock()
	}
}

// InTx runs fn with an executor that repositories recognize; every change fn made is undone if it fails.
// Transactions and writes are serialized, so rows read inside fn cannot change under it.
func (db *DB) InTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := db.snapshot()
	if err := fn(txExec{}); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func copyMap[T any](m map[int64]T) map[int64]T {
	cp := make(map[int64]T, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
