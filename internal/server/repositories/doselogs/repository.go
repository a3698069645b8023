package doselogs

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// Repository stores dose logs. Every call is scoped to one user.
type Repository interface {
	// List returns logs dated within [start, end]. An empty medicationIDs
	// means all of the user's medications.
	List(ctx context.Context, userID string, medicationIDs []string, start, end dates.Date) ([]models.DoseLog, error)
	Insert(ctx context.Context, l *models.DoseLog) error
	DeleteByMedication(ctx context.Context, userID, medicationID string) error
}
