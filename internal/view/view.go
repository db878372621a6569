// Package view renders pages. Templates are not bundled, so the renderer
// writes the view name and its data as JSON.
package view

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/middleware/auth"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

// Page is the data every view receives.
type Page struct {
	Title    string         `json:"title"`
	Notice   string         `json:"notice,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	LoggedIn bool           `json:"logged_in"`
	Account  *tokens.Claims `json:"account,omitempty"`
	CSRF     string         `json:"csrf_token,omitempty"`
	Data     any            `json:"data,omitempty"`
}

type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return json.NewEncoder(w).Encode(struct {
		View string `json:"view"`
		Page any    `json:"page"`
	}{name, data})
}

// NewPage fills the identity fields from the request.
func NewPage(c echo.Context, title string) Page {
	claims := auth.Identity(c)
	return Page{Title: title, LoggedIn: claims != nil, Account: claims}
}
