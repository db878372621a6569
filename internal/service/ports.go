package service

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

type AccountStore interface {
	FindAccountByID(ctx context.Context, id int) (*models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	InsertAccount(ctx context.Context, in models.NewAccount) (*models.Account, error)
	UpdateAccountProfile(ctx context.Context, id int, p models.Profile) (*models.Account, error)
	UpdateAccountPassword(ctx context.Context, id int, hash string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type SessionWriter interface {
	Attach(w http.ResponseWriter, claims tokens.Claims) error
	Clear(w http.ResponseWriter)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Failure(ctx context.Context, email string) error
	Success(ctx context.Context, email string) error
}

type InventoryStore interface {
	ListClassifications(ctx context.Context) ([]models.Classification, error)
	FindClassification(ctx context.Context, id int) (*models.Classification, error)
	ClassificationExists(ctx context.Context, name string) (bool, error)
	InsertClassification(ctx context.Context, name string) (*models.Classification, error)
	VehiclesByClassification(ctx context.Context, classificationID, offset, limit int) (int64, []models.Vehicle, error)
	FindVehicle(ctx context.Context, id int) (*models.Vehicle, error)
	InsertVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int) error
}

type VehicleSearch interface {
	IndexVehicle(ctx context.Context, v *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id int) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Vehicle, error)
}

type FavoriteStore interface {
	FindVehicle(ctx context.Context, id int) (*models.Vehicle, error)
	AddFavorite(ctx context.Context, accountID, invID int) (bool, error)
	RemoveFavorite(ctx context.Context, accountID, invID int) (bool, error)
	FavoritesForAccount(ctx context.Context, accountID int) ([]models.FavoriteVehicle, error)
}
