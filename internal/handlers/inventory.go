package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/flash"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/service"
	"github.com/Skotchmaster/cse_motors/internal/util"
	"github.com/Skotchmaster/cse_motors/internal/validation"
	"github.com/Skotchmaster/cse_motors/internal/view"
)

const inventoryHome = "/inv/"

type InventoryHandler struct {
	Inventory *service.InventoryService
}

func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, ok := paramInt(c, "classificationId")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid classification id.")
	}
	pg := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Inventory.ByClassification(c.Request().Context(), id, pg, size)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Classification not found.")
		}
		return err
	}
	p := page(c, res.Classification.Name+" vehicles")
	p.Data = echo.Map{"vehicles": res.Items, "page": res.Meta}
	return render(c, http.StatusOK, "inventory/classification", p)
}

func (h *InventoryHandler) Detail(c echo.Context) error {
	id, ok := paramInt(c, "inv_id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id.")
	}
	v, err := h.Inventory.VehicleDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found.")
		}
		return err
	}
	p := page(c, v.Title())
	p.Data = v
	return render(c, http.StatusOK, "inventory/detail", p)
}

func (h *InventoryHandler) Management(c echo.Context) error {
	return h.withClassifications(c, http.StatusOK, "inventory/management", page(c, "Vehicle Management"))
}

func (h *InventoryHandler) AddClassificationView(c echo.Context) error {
	return render(c, http.StatusOK, "inventory/add-classification", page(c, "Add New Classification"))
}

func (h *InventoryHandler) AddVehicleView(c echo.Context) error {
	return h.withClassifications(c, http.StatusOK, "inventory/add-inventory", page(c, "Add New Vehicle"))
}

func (h *InventoryHandler) AddClassification(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "inventory.add_classification")

	var f validation.ClassificationForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("add_classification_failed", "status", 400, "reason", "invalid form")
		p := page(c, "Add New Classification")
		p.Errors = validation.Messages(err, "Classification name is required.")
		p.Data = echo.Map{"classification_name": f.Name}
		return render(c, http.StatusBadRequest, "inventory/add-classification", p)
	}

	created, err := h.Inventory.AddClassification(c.Request().Context(), f.Name)
	switch {
	case err == nil:
		return flash.Redirect(c, inventoryHome, fmt.Sprintf("The %s classification was successfully added.", created.Name))
	case errors.Is(err, service.ErrConflict):
		p := page(c, "Add New Classification")
		p.Errors = []string{validation.MsgClassificationExists}
		p.Data = echo.Map{"classification_name": f.Name}
		return render(c, http.StatusConflict, "inventory/add-classification", p)
	default:
		p := page(c, "Add New Classification")
		p.Notice = "Sorry, adding the classification failed."
		return render(c, http.StatusInternalServerError, "inventory/add-classification", p)
	}
}

func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "inventory.add_vehicle")

	var f validation.VehicleForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("add_vehicle_failed", "status", 400, "reason", "invalid form")
		return h.vehicleFormError(c, "inventory/add-inventory", "Add New Vehicle", http.StatusBadRequest,
			validation.Messages(err, "Please check the vehicle details."), f)
	}

	created, err := h.Inventory.AddVehicle(c.Request().Context(), f.Vehicle())
	switch {
	case err == nil:
		return flash.Redirect(c, inventoryHome, fmt.Sprintf("The %s was successfully added.", created.Title()))
	case errors.Is(err, service.ErrValidation):
		return h.vehicleFormError(c, "inventory/add-inventory", "Add New Vehicle", http.StatusBadRequest,
			[]string{"Classification is invalid."}, f)
	default:
		p := page(c, "Add New Vehicle")
		p.Notice = "Sorry, adding the vehicle failed."
		p.Data = echo.Map{"vehicle": f}
		return render(c, http.StatusInternalServerError, "inventory/add-inventory", p)
	}
}

func (h *InventoryHandler) UpdateVehicle(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "inventory.update_vehicle")

	var f validation.VehicleUpdateForm
	if err := validation.Bind(c, &f); err != nil {
		l.Warn("update_vehicle_failed", "status", 400, "reason", "invalid form")
		return h.vehicleFormError(c, "inventory/edit-inventory", "Edit Vehicle", http.StatusBadRequest,
			validation.Messages(err, "Please check the vehicle details."), f)
	}

	updated, err := h.Inventory.UpdateVehicle(c.Request().Context(), f.Vehicle())
	switch {
	case err == nil:
		return flash.Redirect(c, inventoryHome, fmt.Sprintf("The %s was successfully updated.", updated.Title()))
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found.")
	case errors.Is(err, service.ErrValidation):
		return h.vehicleFormError(c, "inventory/edit-inventory", "Edit Vehicle", http.StatusBadRequest,
			[]string{"Classification is invalid."}, f)
	default:
		return err
	}
}

func (h *InventoryHandler) DeleteVehicle(c echo.Context) error {
	var f validation.VehicleIDForm
	if err := validation.Bind(c, &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id.")
	}
	err := h.Inventory.DeleteVehicle(c.Request().Context(), f.InvID)
	switch {
	case err == nil:
		return flash.Redirect(c, inventoryHome, "The vehicle was successfully deleted.")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found.")
	default:
		return err
	}
}

func (h *InventoryHandler) withClassifications(c echo.Context, status int, name string, p view.Page) error {
	list, err := h.Inventory.ListClassifications(c.Request().Context())
	if err != nil {
		return err
	}
	p.Data = echo.Map{"classifications": list}
	return render(c, status, name, p)
}

func (h *InventoryHandler) vehicleFormError(c echo.Context, name, title string, status int, errs []string, form any) error {
	p := page(c, title)
	p.Errors = errs
	list, err := h.Inventory.ListClassifications(c.Request().Context())
	if err != nil {
		return err
	}
	p.Data = echo.Map{"classifications": list, "vehicle": form}
	return render(c, status, name, p)
}
