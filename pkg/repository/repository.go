package repository

import (
	"context"

	"github.com/garnizeh/zelar/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Reads return nil, nil when nothing matches; failures are *sqlerr.Error values.

type UserRepo interface {
	CreateUser(ctx context.Context, u models.NewUser) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User, newPassword string) error
	SetUserActive(ctx context.Context, id int64, active bool) error
}

type GuardianRepo interface {
	CreateGuardian(ctx context.Context, g *models.Guardian) (int64, error)
	ListGuardians(ctx context.Context) ([]models.Guardian, error)
}

type ResidentRepo interface {
	CreateResident(ctx context.Context, r *models.Resident) (int64, error)
	ListResidents(ctx context.Context) ([]models.Resident, error)
	GetResidentByID(ctx context.Context, id int64) (*models.Resident, error)
	UpdateResident(ctx context.Context, r *models.Resident) error
	SetResidentActive(ctx context.Context, id int64, active bool) error
}

type ItemRepo interface {
	CreateItem(ctx context.Context, it *models.Item) (int64, error)
	ListItemsByResident(ctx context.Context, residentID int64) ([]models.Item, error)
}
