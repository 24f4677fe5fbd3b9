package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wazazi/core"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// bindIDParam parses the `:id` path param; malformed IDs are reported as not found.
func bindIDParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// bindOptionalID parses an optional positive integer query param; 0 when absent.
func bindOptionalID(ctx echo.Context, name string) (int64, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: name + " must be a positive integer"})
	}
	return id, nil
}

// bindOptionalInt parses an optional integer query param; invalid (unset) when absent, so that an
// explicit 0 still reaches validation.
func bindOptionalInt(ctx echo.Context, name string) (null.Int, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return null.Int{}, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return null.Int{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: name + " must be an integer"})
	}
	return null.IntFrom(i), nil
}
