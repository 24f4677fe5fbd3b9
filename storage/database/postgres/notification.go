package pgrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/student"
)

const notificationColumns = "id, student_id, date, message, is_read, created_at"

type notificationRepository struct {
	baseRepository
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{baseRepository{exec: exec}}
}

// CreateNotification returns the existing notification when one already exists for (student, date).
func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	q := `INSERT INTO attendance_notification (student_id, date, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING ` + notificationColumns

	e := repo.getExec(exec)
	date := core.TruncateDate(n.Date)
	var created notification.Notification
	err := sqlx.GetContext(ctx, e, &created, q, n.StudentID, date, n.Message, n.IsRead, n.CreatedAt.UTC())
	switch {
	case err == sql.ErrNoRows:
		return repo.GetNotification(ctx, notification.GetFilter{StudentID: n.StudentID, Date: date}, e)
	case pqErrCode(err) == foreignKeyViolation:
		return notification.Notification{}, student.ErrNotFound
	case err != nil:
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return created, nil
}

func (repo notificationRepository) GetNotification(ctx context.Context, filter notification.GetFilter, exec ...core.DBExecutor) (notification.Notification, error) {
	var args []interface{}
	q := `SELECT ` + notificationColumns + ` FROM attendance_notification WHERE `
	if filter.ID != 0 {
		args = append(args, filter.ID)
		q += "id = $1"
		if filter.StudentIDs != nil {
			args = append(args, pq.Array(filter.StudentIDs))
			q += " AND student_id = ANY($2)"
		}
	} else {
		args = append(args, filter.StudentID, core.TruncateDate(filter.Date))
		q += "student_id = $1 AND date = $2"
	}
	if filter.ForUpdate {
		q += " FOR UPDATE"
	}

	var n notification.Notification
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &n, q, args...); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "selecting notification")
	}
	return n, nil
}

// UpdateNotification saves the message and read state; created_at never changes.
func (repo notificationRepository) UpdateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	q := `UPDATE attendance_notification SET message = $2, is_read = $3 WHERE id = $1 RETURNING ` + notificationColumns

	var updated notification.Notification
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &updated, q, n.ID, n.Message, n.IsRead); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "updating notification")
	}
	return updated, nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id int64, studentIDs []int64, exec ...core.DBExecutor) error {
	q := `UPDATE attendance_notification SET is_read = TRUE WHERE id = $1 AND student_id = ANY($2)`

	res, err := repo.getExec(exec).ExecContext(ctx, q, id, pq.Array(studentIDs))
	if err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "marking notification as read")
	} else if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo notificationRepository) where(filter notification.QueryFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentIDs != nil {
		args = append(args, pq.Array(filter.StudentIDs))
		conds = append(conds, fmt.Sprintf("student_id = ANY($%d)", len(args)))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		conds = append(conds, fmt.Sprintf("is_read = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, filter notification.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]notification.Notification, error) {
	where, args := repo.where(filter)
	q := `SELECT ` + notificationColumns + ` FROM attendance_notification` + where + orderBy(ordering, "created_at", "date", "id")

	notifs := make([]notification.Notification, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &notifs, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting notifications")
	}
	return notifs, nil
}

func (repo notificationRepository) CountNotifications(ctx context.Context, filter notification.QueryFilter, exec ...core.DBExecutor) (int, error) {
	where, args := repo.where(filter)
	var count int
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &count, `SELECT COUNT(*) FROM attendance_notification`+where, args...); err != nil {
		return 0, errors.Wrap(err, "counting notifications")
	}
	return count, nil
}
