package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

type studentApi struct {
	parentSvc *parent.Service
	svc       *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		parentSvc: deps.ParentSvc,
		svc:       deps.StudentSvc,
	}

	sg := g.Group("/students", jwt, parentMiddleware(deps.ParentSvc))
	sg.GET("/children", api.children)
	sg.GET("/profile", api.profile)
	sg.GET("/:id", api.retrieve)
}

// Handlers

func (api *studentApi) children(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}

	children, err := api.svc.ListChildren(ctx.Request().Context(), p.ID)
	if err != nil {
		return errors.Wrap(err, "listing children")
	}
	return ctx.JSON(http.StatusOK, student.NewSummaries(children))
}

func (api *studentApi) profile(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}
	id, err := bindOptionalID(ctx, "student")
	if err != nil {
		return err
	}

	profile, err := api.svc.Profile(ctx.Request().Context(), p.ID, id)
	if err != nil {
		return errors.Wrap(err, "building profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}
	id, err := bindIDParam(ctx)
	if err != nil {
		return err
	}

	stu, err := api.svc.GetChild(ctx.Request().Context(), p.ID, id)
	if err != nil {
		return errors.Wrap(err, "finding child")
	}
	return ctx.JSON(http.StatusOK, stu)
}
