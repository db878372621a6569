package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

func (r *GormRepo) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	var items []models.Classification
	if err := r.DB.WithContext(ctx).Order("classification_name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) FindClassification(ctx context.Context, id int) (*models.Classification, error) {
	var c models.Classification
	if err := r.DB.WithContext(ctx).Where("classification_id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ClassificationExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Classification{}).
		Where("LOWER(classification_name) = LOWER(?)", strings.TrimSpace(name)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) InsertClassification(ctx context.Context, name string) (*models.Classification, error) {
	c := models.Classification{Name: strings.TrimSpace(name)}
	if err := r.DB.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) VehiclesByClassification(ctx context.Context, classificationID, offset, limit int) (int64, []models.Vehicle, error) {
	q := r.DB.WithContext(ctx).Model(&models.Vehicle{}).Where("classification_id = ?", classificationID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Vehicle
	if err := r.DB.WithContext(ctx).
		Where("classification_id = ?", classificationID).
		Order("inv_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) FindVehicle(ctx context.Context, id int) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.DB.WithContext(ctx).Where("inv_id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) InsertVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	v.ID = 0
	if err := r.DB.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVehicle overwrites every editable column of the vehicle with v.ID.
func (r *GormRepo) UpdateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	res := r.DB.WithContext(ctx).Model(&models.Vehicle{}).Where("inv_id = ?", v.ID).Updates(map[string]any{
		"inv_make":          v.Make,
		"inv_model":         v.Model,
		"inv_year":          v.Year,
		"inv_description":   v.Description,
		"inv_image":         v.Image,
		"inv_thumbnail":     v.Thumbnail,
		"inv_price":         v.Price,
		"inv_miles":         v.Miles,
		"inv_color":         v.Color,
		"classification_id": v.ClassificationID,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindVehicle(ctx, v.ID)
}

func (r *GormRepo) DeleteVehicle(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Where("inv_id = ?", id).Delete(&models.Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
