package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/analytics"
	"github.com/eringen/inkwell/interpolate"
	"github.com/eringen/inkwell/resolve"
)

func (a *App) handleRequest(c echo.Context) error {
	req := c.Request()
	out, err := a.Resolver.Resolve(req.Context(), req.URL.Path)
	if err != nil {
		c.Set(analytics.OutcomeKey, "error")
		return fmt.Errorf("resolve %s: %w", req.URL.Path, err)
	}

	switch o := out.(type) {
	case resolve.Generated:
		c.Set(analytics.OutcomeKey, "generated")
		if strings.HasPrefix(o.MIME, "text/html") {
			return Render(c, templ.Raw(o.Body))
		}
		return c.Blob(http.StatusOK, o.MIME, []byte(o.Body))
	case resolve.StaticFile:
		c.Set(analytics.OutcomeKey, "file")
		return c.File(o.Path)
	case resolve.Redirect:
		c.Set(analytics.OutcomeKey, "redirect")
		location := o.Location
		if q := req.URL.RawQuery; q != "" {
			location += "?" + q
		}
		return c.Redirect(http.StatusMovedPermanently, location)
	default:
		c.Set(analytics.OutcomeKey, "not_found")
		return echo.ErrNotFound
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "path", c.Request().URL.Path, "err", err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")

	page, err := a.errorPage(c.Request().Context(), code)
	if err != nil {
		a.Logger.Warn("error page unavailable", "status", code, "err", err)
		_ = c.String(code, fmt.Sprintf("%d %s", code, http.StatusText(code)))
		return
	}
	_ = RenderStatus(c, code, templ.Raw(page))
}

// errorPage renders the page for status code, trying in order the
// configured error template, the configured interpolated error page and
// the embedded default page.
func (a *App) errorPage(ctx context.Context, code int) (string, error) {
	status, reason := strconv.Itoa(code), http.StatusText(code)
	var errs []error

	if name := a.Config.ErrorTemplate; name != "" && a.Engine != nil {
		page, err := a.Engine.RenderNamed(name, map[string]string{
			"status_code": status,
			"reason":      reason,
		})
		if err == nil {
			return page, nil
		}
		errs = append(errs, err)
	}

	values := make(map[string]string, len(a.Config.Values)+4)
	for k, v := range a.Config.Values {
		values[k] = v
	}
	values["error_code"] = status
	values["error_message"] = reason
	values["status_code"] = status
	values["reason"] = reason

	if name := a.Config.ErrorPage; name != "" {
		page, err := interpolate.Expand(ctx, a.contentFS, name, values)
		if err == nil {
			return page, nil
		}
		errs = append(errs, err)
	}

	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return "", errors.Join(append(errs, err)...)
	}
	page, err := interpolate.Expand(ctx, embedded, "error.rhc", values)
	if err != nil {
		return "", errors.Join(append(errs, err)...)
	}
	if len(errs) > 0 {
		a.Logger.Warn("configured error page failed, using default", "status", code, "err", errors.Join(errs...))
	}
	return page, nil
}
