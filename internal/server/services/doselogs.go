package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
)

// MaxLogRangeDays bounds a single ListDoseLogs request.
const MaxLogRangeDays = 400

// DoseLogService records and lists taken doses.
type DoseLogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDoseLogService(db *sql.DB, m repomanager.RepositoryManager) *DoseLogService {
	return &DoseLogService{db: db, repomanager: m}
}

// List returns logs of the given medications (all when empty) dated within
// [start, end].
func (s *DoseLogService) List(ctx context.Context, userID string, medicationIDs []string, start, end dates.Date) ([]models.DoseLog, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, fmt.Errorf("%w: bad range %s..%s", common.ErrValidation, start, end)
	}
	if start.DaysUntil(end) >= MaxLogRangeDays {
		return nil, fmt.Errorf("%w: range longer than %d days", common.ErrValidation, MaxLogRangeDays)
	}
	for _, id := range medicationIDs {
		if err := validateID(id); err != nil {
			return nil, err
		}
	}

	logs, err := s.repomanager.DoseLogs(s.db).List(ctx, userID, medicationIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing dose logs: %w", err)
	}
	return logs, nil
}

// Insert records a dose of the user's medication on day. A repeated insert
// for the same day yields common.ErrDuplicate.
func (s *DoseLogService) Insert(ctx context.Context, userID, medicationID string, day dates.Date, notes *string) (*models.DoseLog, error) {
	if err := validateID(medicationID); err != nil {
		return nil, err
	}
	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", common.ErrValidation)
	}

	if _, err := s.repomanager.Medications(s.db).Get(ctx, userID, medicationID); err != nil {
		return nil, fmt.Errorf("error checking medication: %w", err)
	}

	l := &models.DoseLog{
		ID:           newID(),
		MedicationID: medicationID,
		UserID:       userID,
		Date:         day,
		Notes:        common.SanitizeOptional(notes, common.MaxNotesLength),
	}
	if err := s.repomanager.DoseLogs(s.db).Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("error inserting dose log: %w", err)
	}
	return l, nil
}
