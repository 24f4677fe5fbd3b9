package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/student"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

// CreateNotification returns the existing notification when one already exists for (student, date).
func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	defer repo.db.lockWrite(exec)()

	if _, ok := repo.db.student[n.StudentID]; !ok {
		return notification.Notification{}, student.ErrNotFound
	}
	n.Date = core.TruncateDate(n.Date)
	for _, old := range repo.db.notification {
		if old.StudentID == n.StudentID && old.Date.Equal(n.Date) {
			return old, nil
		}
	}

	n.ID = repo.db.nextPK()
	repo.db.notification[n.ID] = n
	return n, nil
}

func (repo *notificationRepository) GetNotification(_ context.Context, filter notification.GetFilter, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if filter.ID != 0 {
		n, ok := repo.db.notification[filter.ID]
		if !ok || (filter.StudentIDs != nil && !containsID(filter.StudentIDs, n.StudentID)) {
			return notification.Notification{}, notification.ErrNotFound
		}
		return n, nil
	}

	date := core.TruncateDate(filter.Date)
	for _, n := range repo.db.notification {
		if n.StudentID == filter.StudentID && n.Date.Equal(date) {
			return n, nil
		}
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) UpdateNotification(_ context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	defer repo.db.lockWrite(exec)()

	old, ok := repo.db.notification[n.ID]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	old.Message = n.Message
	old.IsRead = n.IsRead
	repo.db.notification[n.ID] = old
	return old, nil
}

func (repo *notificationRepository) MarkNotificationRead(_ context.Context, id int64, studentIDs []int64, exec ...core.DBExecutor) error {
	defer repo.db.lockWrite(exec)()

	n, ok := repo.db.notification[id]
	if !ok || !containsID(studentIDs, n.StudentID) {
		return notification.ErrNotFound
	}
	n.IsRead = true
	repo.db.notification[id] = n
	return nil
}

func (repo *notificationRepository) query(filter notification.QueryFilter) []notification.Notification {
	notifs := make([]notification.Notification, 0)
	for _, n := range repo.db.notification {
		if filter.StudentIDs != nil && !containsID(filter.StudentIDs, n.StudentID) {
			continue
		}
		if filter.IsRead != nil && n.IsRead != *filter.IsRead {
			continue
		}
		notifs = append(notifs, n)
	}
	return notifs
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, filter notification.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	notifs := repo.query(filter)
	sort.SliceStable(notifs, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareNotifications(notifs[i], notifs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return notifs[i].ID < notifs[j].ID
	})
	return notifs, nil
}

func (repo *notificationRepository) CountNotifications(_ context.Context, filter notification.QueryFilter, _ ...core.DBExecutor) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.query(filter)), nil
}

func compareNotifications(a, b notification.Notification, field string) int {
	switch field {
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "date":
		return a.Date.Compare(b.Date)
	case "id":
		return compareInt64(a.ID, b.ID)
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func containsID(ids []int64, id int64) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
