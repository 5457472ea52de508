package repository

import (
	"context"

	"vacationManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmployeeCode(ctx context.Context, code int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
}

// VacationRepositoryI defines operations on Vacation entities.
type VacationRepositoryI interface {
	Create(ctx context.Context, v *models.Vacation) (*models.Vacation, error)
	GetByID(ctx context.Context, id int64) (*models.Vacation, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Vacation, error)
	List(ctx context.Context, f VacationFilter) ([]models.Vacation, error)
	UpdateStatus(ctx context.Context, id int64, status models.VacationStatus) error
}

var (
	_ UserRepositoryI     = (*UserRepository)(nil)
	_ VacationRepositoryI = (*VacationRepository)(nil)
)
