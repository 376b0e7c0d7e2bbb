package users

import (
	"context"

	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/google/uuid"
)

// Repository is the User Store: persistence for user records.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
