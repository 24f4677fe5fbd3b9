package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/parent"
)

type attendanceApi struct {
	parentSvc *parent.Service
	svc       *attendance.Service
	validate  *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		parentSvc: deps.ParentSvc,
		svc:       deps.AttendanceSvc,
		validate:  deps.Validate,
	}

	g.GET("/students/attendance", api.monthlyReport, jwt, parentMiddleware(deps.ParentSvc))

	// attendance entry, for school staff
	g.POST("/staff/attendance", api.record, jwt, staffMiddleware())
}

// Handlers

func (api *attendanceApi) monthlyReport(ctx echo.Context) error {
	p, err := getContextParent(ctx, api.parentSvc)
	if err != nil {
		return errors.Wrap(err, "getting context parent")
	}

	var q attendance.ReportQuery
	if q.Year, err = bindOptionalInt(ctx, "year"); err != nil {
		return err
	}
	if q.Month, err = bindOptionalInt(ctx, "month"); err != nil {
		return err
	}
	if q.Student, err = bindOptionalID(ctx, "student"); err != nil {
		return err
	}

	report, err := api.svc.MonthlyReport(ctx.Request().Context(), p.ID, q)
	if err != nil {
		return errors.Wrap(err, "building monthly report")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, RecordResponse{
		ID:      rec.ID,
		Student: rec.StudentID,
		Date:    rec.Date.Format(core.DateLayout),
		Status:  rec.Status,
		Remarks: rec.Remarks,
	})
}

// RecordResponse is the stored attendance record, after any concurrent write resolved.
type RecordResponse struct {
	ID      int64  `json:"id"`
	Student int64  `json:"student"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}
