package users

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// Repository stores backend accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
