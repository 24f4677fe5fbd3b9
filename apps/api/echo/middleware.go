package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/metrics"
)

func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsStaff {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// parentMiddleware rejects requests whose token does not resolve to an existing Parent.
func parentMiddleware(svc *parent.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextParent(ctx, svc); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// metricsMiddleware counts requests by route and final status.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			method := ctx.Request().Method
			status := strconv.Itoa(ctx.Response().Status)
			metrics.APIRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.APIRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
