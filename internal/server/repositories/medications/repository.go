package medications

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// Repository stores medications. Every call is scoped to one user.
type Repository interface {
	List(ctx context.Context, userID string) ([]models.Medication, error)
	Get(ctx context.Context, userID, id string) (*models.Medication, error)
	Create(ctx context.Context, m *models.Medication) error
	Delete(ctx context.Context, userID, id string) error
}
