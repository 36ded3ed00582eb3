package analytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// OutcomeKey is the echo.Context key under which handlers store how a
// request was resolved.
const OutcomeKey = "inkwell.outcome"

// Middleware records every GET and HEAD request in store once the handler
// has finished. Requests carrying "DNT: 1" are not recorded. Recording
// failures are logged and never affect the response.
func Middleware(store *Store, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			req := c.Request()
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return err
			}
			if req.Header.Get("DNT") == "1" {
				return err
			}

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			outcome, _ := c.Get(OutcomeKey).(string)
			if outcome == "" {
				outcome = "error"
			}

			ua := req.UserAgent()
			browser, os, device := ParseUserAgent(ua)
			r := Request{
				Path:    req.URL.Path,
				Outcome: outcome,
				Status:  status,
				Browser: browser,
				OS:      os,
				Device:  device,
				Bot:     BotName(ua),
				Time:    time.Now(),
			}
			if rerr := store.Record(context.WithoutCancel(req.Context()), r); rerr != nil {
				logger.Warn("analytics record failed", "path", r.Path, "err", rerr)
			}
			return err
		}
	}
}
