package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateName  = errors.New("name already exists")
	ErrNoChange       = errors.New("no changes applied")
)

type GormRepo struct {
	DB *gorm.DB
}

// AutoMigrate creates the tables from the models. Production schemas come
// from the SQL migrations; this is for throwaway databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Account{}, &models.Classification{}, &models.Vehicle{}, &models.Favorite{})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
