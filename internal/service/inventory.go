package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/repo"
	"github.com/Skotchmaster/cse_motors/internal/util"
)

const (
	EventClassificationAdded = "classification_added"
	EventVehicleAdded        = "vehicle_added"
	EventVehicleUpdated      = "vehicle_updated"
	EventVehicleDeleted      = "vehicle_deleted"
)

type InventoryService struct {
	Store InventoryStore
	// Search and Events are optional; when Search is nil the catalogue still
	// works but free-text search is unavailable.
	Search VehicleSearch
	Events EventPublisher
}

type VehiclePage struct {
	Classification *models.Classification
	Items          []models.Vehicle
	Meta           util.PageMeta
}

func (s *InventoryService) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	return s.Store.ListClassifications(ctx)
}

func (s *InventoryService) ByClassification(ctx context.Context, classificationID, page, size int) (*VehiclePage, error) {
	class, err := s.Store.FindClassification(ctx, classificationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	from, limit := util.Calculate(page, size)
	total, items, err := s.Store.VehiclesByClassification(ctx, classificationID, from, limit)
	if err != nil {
		return nil, err
	}
	return &VehiclePage{
		Classification: class,
		Items:          items,
		Meta:           util.Meta(page, from, limit, total),
	}, nil
}

func (s *InventoryService) VehicleDetail(ctx context.Context, id int) (*models.Vehicle, error) {
	v, err := s.Store.FindVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *InventoryService) AddClassification(ctx context.Context, name string) (*models.Classification, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.add_classification")
	name = strings.TrimSpace(name)

	exists, err := s.Store.ClassificationExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		l.Warn("add_classification_failed", "status", 409, "name", name)
		return nil, ErrConflict
	}

	c, err := s.Store.InsertClassification(ctx, name)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateName) {
			return nil, ErrConflict
		}
		l.Error("add_classification_failed", "status", 500, "error", err)
		return nil, err
	}

	publishInventory(ctx, s.Events, c.ID, InventoryEvent{
		Type:             EventClassificationAdded,
		ClassificationID: c.ID,
		Name:             c.Name,
	})
	l.Info("add_classification_success", "classification_id", c.ID)
	return c, nil
}

func (s *InventoryService) AddVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.add_vehicle")

	if err := s.checkClassification(ctx, v.ClassificationID); err != nil {
		return nil, err
	}
	v.ID = 0
	created, err := s.Store.InsertVehicle(ctx, v)
	if err != nil {
		l.Error("add_vehicle_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, created)
	publishInventory(ctx, s.Events, created.ID, InventoryEvent{
		Type:             EventVehicleAdded,
		InvID:            created.ID,
		ClassificationID: created.ClassificationID,
		Name:             created.Title(),
	})
	l.Info("add_vehicle_success", "inv_id", created.ID)
	return created, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.update_vehicle", "inv_id", v.ID)

	if err := s.checkClassification(ctx, v.ClassificationID); err != nil {
		return nil, err
	}
	updated, err := s.Store.UpdateVehicle(ctx, v)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		l.Error("update_vehicle_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, updated)
	publishInventory(ctx, s.Events, updated.ID, InventoryEvent{
		Type:             EventVehicleUpdated,
		InvID:            updated.ID,
		ClassificationID: updated.ClassificationID,
		Name:             updated.Title(),
	})
	l.Info("update_vehicle_success")
	return updated, nil
}

func (s *InventoryService) DeleteVehicle(ctx context.Context, id int) error {
	l := logging.FromContext(ctx).With("svc", "inventory.delete_vehicle", "inv_id", id)

	if err := s.Store.DeleteVehicle(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("delete_vehicle_failed", "status", 500, "error", err)
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteVehicle(ctx, id); err != nil {
			l.Warn("search_deindex_failed", "error", err)
		}
	}
	publishInventory(ctx, s.Events, id, InventoryEvent{Type: EventVehicleDeleted, InvID: id})
	l.Info("delete_vehicle_success")
	return nil
}

func (s *InventoryService) SearchVehicles(ctx context.Context, query string, page, size int) ([]models.Vehicle, util.PageMeta, error) {
	if s.Search == nil {
		return nil, util.PageMeta{}, ErrSearchUnavailable
	}
	from, limit := util.Calculate(page, size)
	total, items, err := s.Search.Search(ctx, strings.TrimSpace(query), from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_failed", "error", err)
		return nil, util.PageMeta{}, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	return items, util.Meta(page, from, limit, total), nil
}

func (s *InventoryService) checkClassification(ctx context.Context, id int) error {
	if _, err := s.Store.FindClassification(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: unknown classification %d", ErrValidation, id)
		}
		return err
	}
	return nil
}

// index keeps the search copy in step; the database stays authoritative.
func (s *InventoryService) index(ctx context.Context, v *models.Vehicle) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexVehicle(ctx, v); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "inv_id", v.ID, "error", err)
	}
}
