package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/student"
)

type (
	InboxView struct {
		Notifications []NotificationView `json:"notifications"`
		UnreadCount   int                `json:"unread_count"`
	}

	NotificationView struct {
		ID        int64     `json:"id"`
		Date      string    `json:"date"`
		Message   string    `json:"message"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ChildLister lists a parent's active children.
	ChildLister interface {
		ListChildren(ctx context.Context, parentID int64) ([]student.Student, error)
	}

	// Inbox gives parents access to the notifications of their active children.
	Inbox struct {
		repo     Repository
		children ChildLister
	}
)

var newestFirst = []core.DBOrdering{{Field: "created_at"}, {Field: "id"}}

func NewInbox(repo Repository, children ChildLister) *Inbox {
	return &Inbox{repo: repo, children: children}
}

// NewInboxView maps notifications, already ordered, to the inbox listing.
func NewInboxView(notifs []Notification) InboxView {
	view := InboxView{Notifications: make([]NotificationView, 0, len(notifs))}
	for _, n := range notifs {
		if !n.IsRead {
			view.UnreadCount++
		}
		view.Notifications = append(view.Notifications, NotificationView{
			ID:        n.ID,
			Date:      n.Date.Format(core.DateLayout),
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return view
}

func (ib *Inbox) childIDs(ctx context.Context, parentID int64) ([]int64, error) {
	children, err := ib.children.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// List returns the notifications of all the parent's active children, most recent first.
func (ib *Inbox) List(ctx context.Context, parentID int64) (InboxView, error) {
	ids, err := ib.childIDs(ctx, parentID)
	if err != nil {
		return InboxView{}, err
	}
	if len(ids) == 0 {
		return NewInboxView(nil), nil
	}

	notifs, err := ib.repo.QueryNotifications(ctx, QueryFilter{StudentIDs: ids}, newestFirst)
	if err != nil {
		return InboxView{}, errors.Wrap(err, "querying notifications")
	}
	return NewInboxView(notifs), nil
}

// MarkRead marks the notification as read.
// It fails with ErrNotFound when the notification does not belong to one of the parent's active children.
func (ib *Inbox) MarkRead(ctx context.Context, parentID, id int64) error {
	ids, err := ib.childIDs(ctx, parentID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrNotFound
	}

	if err = ib.repo.MarkNotificationRead(ctx, id, ids); err != nil {
		if core.IsNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, "marking notification as read")
	}
	return nil
}
