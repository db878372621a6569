package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/flash"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/middleware/csrf"
	"github.com/Skotchmaster/cse_motors/internal/view"
)

// render fills the per-request page fields and renders name.
func render(c echo.Context, status int, name string, p view.Page) error {
	if p.Notice == "" {
		p.Notice = flash.Pop(c)
	}
	p.CSRF = csrf.Token(c)
	return c.Render(status, name, p)
}

func page(c echo.Context, title string) view.Page {
	return view.NewPage(c, title)
}

func paramInt(c echo.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	return n, err == nil
}

const crashMessage = "Oh no! There was a crash. Maybe try a different route?"

// ErrorHandler renders the error view. Only 4xx messages set through
// echo.NewHTTPError reach the client; everything else is generic.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := crashMessage
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			msg = s
		}
	}

	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	p := page(c, strconv.Itoa(code))
	p.Errors = []string{msg}
	if rerr := render(c, code, "errors/error", p); rerr != nil {
		logging.FromContext(c.Request().Context()).Error("render_error_page_failed", "error", rerr)
	}
}
