package profiles

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// Repository stores one profile per user; the profile id is the user id.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Profile, error)
}
