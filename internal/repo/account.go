package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

func (r *GormRepo) FindAccountByID(ctx context.Context, id int) (*models.Account, error) {
	var acct models.Account
	if err := r.DB.WithContext(ctx).Where("account_id = ?", id).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *GormRepo) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acct models.Account
	err := r.DB.WithContext(ctx).
		Where("account_email = ?", models.NormalizeEmail(email)).
		First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

// InsertAccount creates a standard account. The role is never taken from input.
func (r *GormRepo) InsertAccount(ctx context.Context, in models.NewAccount) (*models.Account, error) {
	acct := models.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        models.NormalizeEmail(in.Email),
		PasswordHash: in.PasswordHash,
		Role:         models.RoleStandard,
	}
	tx := r.DB.WithContext(ctx).Where("account_email = ?", acct.Email).FirstOrCreate(&acct)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return nil, ErrDuplicateEmail
		}
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrDuplicateEmail
	}
	return &acct, nil
}

// UpdateAccountProfile returns ErrNoChange when the row is missing or already
// holds the same values.
func (r *GormRepo) UpdateAccountProfile(ctx context.Context, id int, p models.Profile) (*models.Account, error) {
	p.Email = models.NormalizeEmail(p.Email)

	var updated models.Account
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Account
		if err := tx.Where("account_id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoChange
			}
			return err
		}
		if current.FirstName == p.FirstName && current.LastName == p.LastName && current.Email == p.Email {
			return ErrNoChange
		}

		var taken int64
		if err := tx.Model(&models.Account{}).
			Where("account_email = ? AND account_id <> ?", p.Email, id).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrDuplicateEmail
		}

		res := tx.Model(&models.Account{}).Where("account_id = ?", id).Updates(map[string]any{
			"account_firstname": p.FirstName,
			"account_lastname":  p.LastName,
			"account_email":     p.Email,
		})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return ErrDuplicateEmail
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoChange
		}
		return tx.Where("account_id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *GormRepo) UpdateAccountPassword(ctx context.Context, id int, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("account_id = ?", id).
		Update("account_password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoChange
	}
	return nil
}
