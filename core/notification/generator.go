package notification

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
	"github.com/trezcool/wazazi/metrics"
)

const absenceAlertTemplate = "absence_alert"

// Generator keeps absence notifications in sync with absence records.
type Generator struct {
	repo    Repository
	parents parent.Repository
	mailSvc core.EmailService
	logger  core.Logger
	nowFunc func() time.Time
}

func NewGenerator(repo Repository, parents parent.Repository, mailSvc core.EmailService, logger core.Logger) *Generator {
	return &Generator{
		repo:    repo,
		parents: parents,
		mailSvc: mailSvc,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// NotifyAbsence ensures the (student, date) absence notification exists and is current.
// It must run with the executor of the transaction that stored the absence.
func (g *Generator) NotifyAbsence(ctx context.Context, stu student.Student, date time.Time, exec core.DBExecutor) (Notification, Outcome, error) {
	date = core.TruncateDate(date)
	msg := AbsenceMessage(stu, date)

	n, err := g.repo.GetNotification(ctx, GetFilter{StudentID: stu.ID, Date: date, ForUpdate: true}, exec)
	switch {
	case core.IsNotFound(err):
		n, err = g.repo.CreateNotification(ctx, Notification{
			StudentID: stu.ID,
			Date:      date,
			Message:   msg,
			CreatedAt: g.nowFunc().UTC(),
		}, exec)
		if err != nil {
			return Notification{}, 0, errors.Wrap(err, "creating notification")
		}
		metrics.NotificationsTotal.WithLabelValues(OutcomeCreated.String()).Inc()
		return n, OutcomeCreated, nil

	case err != nil:
		return Notification{}, 0, errors.Wrap(err, "finding notification")

	case n.IsRead:
		metrics.NotificationsTotal.WithLabelValues(OutcomeSuppressed.String()).Inc()
		return n, OutcomeSuppressed, nil
	}

	n.Message = msg
	if n, err = g.repo.UpdateNotification(ctx, n, exec); err != nil {
		return Notification{}, 0, errors.Wrap(err, "refreshing notification")
	}
	metrics.NotificationsTotal.WithLabelValues(OutcomeRefreshed.String()).Inc()
	return n, OutcomeRefreshed, nil
}

// Deliver emails the notification to the student's parent.
// It is best-effort: failures are logged, never returned.
func (g *Generator) Deliver(ctx context.Context, stu student.Student, n Notification) {
	p, err := g.parents.GetParent(ctx, stu.ParentID)
	if err != nil {
		g.logger.Error(fmt.Sprintf("delivering notification %d: %v", n.ID, err), errors.Wrap(err, "finding parent"))
		return
	}
	if p.Email == "" {
		return
	}

	g.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{p.MailAddress()},
		Subject:      "Absence alert: " + stu.FullName(),
		TemplateName: absenceAlertTemplate,
		TemplateData: map[string]string{
			"ParentName": p.Name,
			"Message":    n.Message,
		},
	})
}
