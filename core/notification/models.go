package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/student"
)

var ErrNotFound = core.NewNotFoundError("notification not found")

// Notification alerts a parent that their child was absent on Date.
// There is at most one Notification per (student, date).
type Notification struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	Date      time.Time `db:"date"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"` // UTC; never changes once set
}

// Outcome tells what NotifyAbsence did with the (student, date) notification.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeRefreshed
	OutcomeSuppressed // already read; left untouched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// AbsenceMessage formats the alert text for a student's absence on date.
func AbsenceMessage(stu student.Student, date time.Time) string {
	return fmt.Sprintf("ALERT: %s %s was marked absent on %s.", stu.FirstName, stu.LastName, date.Format("January 02, 2006"))
}

type QueryFilter struct {
	StudentIDs []int64
	IsRead     *bool
}

// GetFilter identifies a single Notification either by ID (optionally scoped to StudentIDs),
// or by (StudentID, Date).
type GetFilter struct {
	ID         int64
	StudentIDs []int64
	StudentID  int64
	Date       time.Time
	// ForUpdate locks the row until the end of the enclosing transaction.
	ForUpdate bool
}

type Repository interface {
	CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
	GetNotification(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Notification, error)
	UpdateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
	// MarkNotificationRead flags the notification as read without touching its message.
	// ErrNotFound when id does not belong to one of studentIDs.
	MarkNotificationRead(ctx context.Context, id int64, studentIDs []int64, exec ...core.DBExecutor) error
	QueryNotifications(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Notification, error)
	CountNotifications(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) (int, error)
}
