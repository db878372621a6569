package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/flash"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/metrics"
	"github.com/Skotchmaster/cse_motors/internal/middleware/auth"
	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/repo"
	"github.com/Skotchmaster/cse_motors/internal/service"
	"github.com/Skotchmaster/cse_motors/internal/validation"
)

const accountHome = "/account/"

type AccountReader interface {
	FindAccountByID(ctx context.Context, id int) (*models.Account, error)
}

type AccountHandler struct {
	Auth     *service.AuthService
	Accounts AccountReader
}

func (h *AccountHandler) Home(c echo.Context) error {
	return render(c, http.StatusOK, "index", page(c, "Home"))
}

func (h *AccountHandler) LoginView(c echo.Context) error {
	return render(c, http.StatusOK, "account/login", page(c, "Login"))
}

func (h *AccountHandler) RegistrationView(c echo.Context) error {
	return render(c, http.StatusOK, "account/registration", page(c, "Register"))
}

func (h *AccountHandler) Management(c echo.Context) error {
	return render(c, http.StatusOK, "account/management", page(c, "Account Management"))
}

func (h *AccountHandler) Login(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "account.login")

	var f validation.LoginForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid form")
		p := page(c, "Login")
		p.Errors = validation.Messages(err, validation.MsgBadCredentials)
		p.Data = echo.Map{"account_email": f.Email}
		return render(c, http.StatusBadRequest, "account/login", p)
	}

	_, err := h.Auth.Login(c.Request().Context(), c.Response(), f.Email, f.Password)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, accountHome)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrRateLimited):
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		p := page(c, "Login")
		p.Notice = validation.MsgBadCredentials
		p.Data = echo.Map{"account_email": f.Email}
		return render(c, status, "account/login", p)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "Access Forbidden")
	}
}

func (h *AccountHandler) Register(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "account.register")

	var f validation.RegisterForm
	bindErr := validation.Bind(c, &f)
	// the password is never sent back
	sticky := echo.Map{
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
	if bindErr != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid form")
		p := page(c, "Register")
		p.Errors = validation.Messages(bindErr, "Sorry, the registration failed.")
		p.Data = sticky
		return render(c, http.StatusBadRequest, "account/registration", p)
	}

	acct, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	})
	switch {
	case err == nil:
		p := page(c, "Login")
		p.Notice = fmt.Sprintf("Congratulations, you're registered %s. Please log in.", acct.FirstName)
		return render(c, http.StatusCreated, "account/login", p)
	case errors.Is(err, service.ErrConflict):
		p := page(c, "Register")
		p.Errors = []string{validation.MsgEmailExists}
		p.Data = sticky
		return render(c, http.StatusConflict, "account/registration", p)
	default:
		p := page(c, "Register")
		p.Notice = "Sorry, the registration failed."
		p.Data = sticky
		return render(c, http.StatusInternalServerError, "account/registration", p)
	}
}

func (h *AccountHandler) UpdateView(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "account.update_view")

	id, ok := paramInt(c, "accountId")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid account identifier.")
	}
	claims := auth.Identity(c)
	if claims == nil || claims.AccountID != id {
		l.Warn("update_view_denied", "status", 302, "reason", "caller does not own account", "account_id", id)
		metrics.RecordDenied(metrics.PolicyOwnership)
		return flash.Redirect(c, accountHome, "You are not authorized to edit that account.")
	}

	acct, err := h.Accounts.FindAccountByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found.")
		}
		return err
	}
	p := page(c, "Update Account")
	p.Data = acct
	return render(c, http.StatusOK, "account/update", p)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_profile")

	var f validation.ProfileForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "invalid form")
		p := page(c, "Update Account")
		p.Errors = validation.Messages(err, "Invalid account identifier.")
		p.Data = echo.Map{
			"account_id":        f.AccountID,
			"account_firstname": f.FirstName,
			"account_lastname":  f.LastName,
			"account_email":     f.Email,
		}
		return render(c, http.StatusBadRequest, "account/update", p)
	}

	acct, err := h.Auth.UpdateProfile(ctx, c.Response(), auth.Identity(c), f.AccountID, f.Profile())
	switch {
	case err == nil:
		return flash.Redirect(c, accountHome, "Account information updated.")
	case errors.Is(err, service.ErrForbidden):
		return flash.Redirect(c, accountHome, "You are not authorized to update that account.")
	case errors.Is(err, service.ErrNoChange):
		return flash.Redirect(c, accountHome, "No changes were made to your account.")
	case errors.Is(err, service.ErrConflict):
		p := page(c, "Update Account")
		p.Errors = []string{validation.MsgEmailTaken}
		p.Data = acct
		return render(c, http.StatusConflict, "account/update", p)
	default:
		return flash.Redirect(c, accountHome, "Sorry, we could not update your account information.")
	}
}

func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_password")

	var f validation.PasswordForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("update_password_failed", "status", 400, "reason", "invalid form")
		p := page(c, "Update Account")
		p.Errors = validation.Messages(err, "Invalid account identifier.")
		p.Data = echo.Map{"account_id": f.AccountID}
		return render(c, http.StatusBadRequest, "account/update", p)
	}

	_, err := h.Auth.UpdatePassword(ctx, c.Response(), auth.Identity(c), f.AccountID, f.Password)
	switch {
	case err == nil:
		return flash.Redirect(c, accountHome, "Password updated successfully.")
	case errors.Is(err, service.ErrForbidden):
		return flash.Redirect(c, accountHome, "You are not authorized to update that account.")
	case errors.Is(err, service.ErrNoChange):
		return flash.Redirect(c, accountHome, "No changes were made to the password.")
	default:
		return flash.Redirect(c, accountHome, "Sorry, we could not update your password.")
	}
}

func (h *AccountHandler) Logout(c echo.Context) error {
	h.Auth.Logout(c.Request().Context(), c.Response())
	return flash.Redirect(c, "/", "You have been logged out.")
}
