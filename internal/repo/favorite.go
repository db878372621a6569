package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

// AddFavorite reports false when the pair was already saved.
func (r *GormRepo) AddFavorite(ctx context.Context, accountID, invID int) (bool, error) {
	fav := models.Favorite{AccountID: accountID, InvID: invID}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "inv_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, accountID, invID int) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("account_id = ? AND inv_id = ?", accountID, invID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) FavoritesForAccount(ctx context.Context, accountID int) ([]models.FavoriteVehicle, error) {
	var out []models.FavoriteVehicle
	err := r.DB.WithContext(ctx).
		Table("account_favorite AS f").
		Select("f.favorite_id, f.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_thumbnail, i.inv_price").
		Joins("JOIN inventory i ON i.inv_id = f.inv_id").
		Where("f.account_id = ?", accountID).
		Order("f.created_at DESC, f.favorite_id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
