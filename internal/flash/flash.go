// Package flash carries a one-shot notice across a redirect in a cookie.
package flash

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

const CookieName = "notice"

const maxAge = 60

func Set(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it.
func Pop(c echo.Context) string {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return msg
}

// Redirect sets msg and redirects with 302.
func Redirect(c echo.Context, to, msg string) error {
	Set(c, msg)
	return c.Redirect(http.StatusFound, to)
}
