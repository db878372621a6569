package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/flash"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/middleware/auth"
	"github.com/Skotchmaster/cse_motors/internal/service"
	"github.com/Skotchmaster/cse_motors/internal/validation"
)

const favoritesHome = "/account/favorites"

// FavoriteHandler routes are mounted behind RequireLogin, so Identity is set.
type FavoriteHandler struct {
	Favorites *service.FavoriteService
}

func (h *FavoriteHandler) List(c echo.Context) error {
	claims := auth.Identity(c)
	favs, err := h.Favorites.List(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	p := page(c, "Saved Vehicles")
	p.Data = echo.Map{"favorites": favs}
	return render(c, http.StatusOK, "account/favorites", p)
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "favorite.add")
	claims := auth.Identity(c)

	var f validation.FavoriteForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("add_favorite_failed", "status", 302, "reason", "invalid form")
		return flash.Redirect(c, f.SafeRedirect(favoritesHome), "Vehicle could not be saved.")
	}

	saved, err := h.Favorites.Add(c.Request().Context(), claims.AccountID, f.InvID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return flash.Redirect(c, f.SafeRedirect(favoritesHome), "Vehicle could not be saved.")
	case err != nil:
		return flash.Redirect(c, favoritesHome, "Vehicle could not be saved.")
	case saved:
		return flash.Redirect(c, f.SafeRedirect(favoritesHome), "Vehicle saved to favorites.")
	default:
		return flash.Redirect(c, f.SafeRedirect(favoritesHome), "Vehicle was already in favorites.")
	}
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	claims := auth.Identity(c)

	var f validation.FavoriteForm
	if err := validation.Bind(c, &f); err != nil {
		return flash.Redirect(c, favoritesHome, "Vehicle could not be removed.")
	}

	removed, err := h.Favorites.Remove(c.Request().Context(), claims.AccountID, f.InvID)
	switch {
	case err != nil:
		return flash.Redirect(c, favoritesHome, "Vehicle could not be removed.")
	case !removed:
		return flash.Redirect(c, favoritesHome, "We did not find that vehicle in favorites.")
	default:
		return flash.Redirect(c, favoritesHome, "Vehicle removed from favorites.")
	}
}
