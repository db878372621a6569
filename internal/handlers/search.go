package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/service"
	"github.com/Skotchmaster/cse_motors/internal/util"
)

type SearchHandler struct {
	Inventory *service.InventoryService
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		p := page(c, "Search")
		p.Errors = []string{"Please enter a search term."}
		return render(c, http.StatusBadRequest, "inventory/search", p)
	}

	pg := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	items, meta, err := h.Inventory.SearchVehicles(c.Request().Context(), q, pg, size)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is unavailable right now.")
		}
		return err
	}
	p := page(c, "Search results for "+q)
	p.Data = echo.Map{"q": q, "vehicles": items, "page": meta}
	return render(c, http.StatusOK, "inventory/search", p)
}
