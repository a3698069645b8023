package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dbx"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newID is a seam for deterministic ids in tests.
var newID = uuid.NewString

// MedicationService manages a user's medication list.
type MedicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMedicationService(db *sql.DB, m repomanager.RepositoryManager) *MedicationService {
	return &MedicationService{db: db, repomanager: m}
}

// List returns the user's medications, newest first.
func (s *MedicationService) List(ctx context.Context, userID string) ([]models.Medication, error) {
	meds, err := s.repomanager.Medications(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing medications: %w", err)
	}
	return meds, nil
}

// Create sanitizes in and stores it. Name and dosage must be non-blank.
func (s *MedicationService) Create(ctx context.Context, userID string, in models.NewMedication) (*models.Medication, error) {
	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	m := &models.Medication{
		ID:        newID(),
		UserID:    userID,
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		Notes:     in.Notes,
	}
	if err := s.repomanager.Medications(s.db).Create(ctx, m); err != nil {
		return nil, fmt.Errorf("error creating medication: %w", err)
	}
	return m, nil
}

// Delete removes the medication and its dose logs in one transaction,
// logs first.
func (s *MedicationService) Delete(ctx context.Context, userID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.DoseLogs(tx).DeleteByMedication(ctx, userID, id); err != nil {
			return err
		}
		return s.repomanager.Medications(tx).Delete(ctx, userID, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting medication: %w", err)
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: bad id %q", common.ErrValidation, id)
	}
	return nil
}
