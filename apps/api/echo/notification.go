package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core/notification"
	"github.com/trezcool/wazazi/core/parent"
)

type notificationApi struct {
	parentSvc *parent.Service
	inbox     *notification.Inbox
}

// MessageResponse acknowledges a successful action.
type MessageResponse struct {
	Message string `json:"message"`
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := notificationApi{
		parentSvc: deps.ParentSvc,
		inbox:     deps.Inbox,
	}

	ng := g.Group("/students/notifications", jwt, parentMiddleware(deps.ParentSvc))
	ng.GET("", api.list)
	ng.POST("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) list(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}

	view, err := api.inbox.List(ctx.Request().Context(), p.ID)
	if err != nil {
		return errors.Wrap(err, "listing notifications")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}
	id, err := bindIDParam(ctx)
	if err != nil {
		return notification.ErrNotFound
	}

	if err = api.inbox.MarkRead(ctx.Request().Context(), p.ID, id); err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}
