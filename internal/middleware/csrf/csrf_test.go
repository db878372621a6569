package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPaths: []string{"/metrics"}}))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, Token(c)) }
	e.GET("/account/login", ok)
	e.POST("/account/login", ok)
	e.POST("/metrics", ok)
	return e
}

func TestGetIssuesToken(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	assert.Equal(t, token, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token, cookies[0].Value)
}

func post(e *echo.Echo, cookieToken, formToken, origin string) *httptest.ResponseRecorder {
	form := url.Values{}
	if formToken != "" {
		form.Set("csrf_token", formToken)
	}
	req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if cookieToken != "" {
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: cookieToken})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostChecks(t *testing.T) {
	e := newEcho()
	// httptest requests target example.com
	const self = "http://example.com"

	assert.Equal(t, http.StatusOK, post(e, "tok", "tok", self).Code)
	assert.Equal(t, http.StatusForbidden, post(e, "tok", "other", self).Code)
	assert.Equal(t, http.StatusForbidden, post(e, "tok", "", self).Code)
	assert.Equal(t, http.StatusForbidden, post(e, "tok", "tok", "http://evil.example").Code)
	assert.Equal(t, http.StatusForbidden, post(e, "tok", "tok", "").Code)
}

func TestSkipPaths(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
