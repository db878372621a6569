package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/repo"
)

// FavoriteService manages the vehicles an account has saved. Callers pass the
// authenticated account id; there is no way to act on another account's list.
type FavoriteService struct {
	Store FavoriteStore
}

// Add reports whether the vehicle was newly saved.
func (s *FavoriteService) Add(ctx context.Context, accountID, invID int) (bool, error) {
	if _, err := s.Store.FindVehicle(ctx, invID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	added, err := s.Store.AddFavorite(ctx, accountID, invID)
	if err != nil {
		logging.FromContext(ctx).Error("add_favorite_failed", "account_id", accountID, "inv_id", invID, "error", err)
		return false, err
	}
	return added, nil
}

func (s *FavoriteService) Remove(ctx context.Context, accountID, invID int) (bool, error) {
	removed, err := s.Store.RemoveFavorite(ctx, accountID, invID)
	if err != nil {
		logging.FromContext(ctx).Error("remove_favorite_failed", "account_id", accountID, "inv_id", invID, "error", err)
		return false, err
	}
	return removed, nil
}

func (s *FavoriteService) List(ctx context.Context, accountID int) ([]models.FavoriteVehicle, error) {
	return s.Store.FavoritesForAccount(ctx, accountID)
}
