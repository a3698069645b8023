package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// MedicationService lists, adds and deletes medications.
type MedicationService struct {
	client   client.Client
	cache    *cache.Cache
	notifier Notifier
	log      logging.Logger
}

func NewMedicationService(c client.Client, cc *cache.Cache, n Notifier, l logging.Logger) *MedicationService {
	return &MedicationService{client: c, cache: cc, notifier: n, log: l.With("module", "medications")}
}

// List returns the session's medications, newest first.
func (m *MedicationService) List(ctx context.Context, s session.Session) ([]models.Medication, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return cache.Load(ctx, m.cache, cache.MedicationsKey(s.UserID), func(ctx context.Context) ([]models.Medication, error) {
		return m.client.ListMedications(ctx, s)
	})
}

// Add sanitizes in and validates it locally before creating it.
func (m *MedicationService) Add(ctx context.Context, s session.Session, in models.NewMedication) (*models.Medication, error) {
	med, err := m.add(ctx, s, in)
	return med, report(ctx, m.notifier, ActionAddMedication, err)
}

func (m *MedicationService) add(ctx context.Context, s session.Session, in models.NewMedication) (*models.Medication, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	med, err := m.client.CreateMedication(ctx, s, in)
	if err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	m.cache.Invalidate(cache.MedicationsKey(s.UserID))
	m.log.Debug(ctx, "medication added", "medication_id", med.ID)
	return med, nil
}

// Delete removes a medication and its logs. A medication that is already
// gone counts as deleted.
func (m *MedicationService) Delete(ctx context.Context, s session.Session, id string) error {
	return report(ctx, m.notifier, ActionDeleteMedication, m.delete(ctx, s, id))
}

func (m *MedicationService) delete(ctx context.Context, s session.Session, id string) error {
	if err := s.Valid(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: medication id is required", common.ErrValidation)
	}

	err := m.client.DeleteMedication(ctx, s, id)
	if errors.Is(err, common.ErrNotFound) {
		m.log.Debug(ctx, "medication already deleted", "medication_id", id)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}

	m.cache.Invalidate(cache.MedicationsKey(s.UserID))
	invalidateLogs(m.cache, s.UserID)
	return nil
}

// invalidateLogs drops every cached view derived from the user's logs.
func invalidateLogs(c *cache.Cache, userID string) {
	c.InvalidateKind(cache.KindToday, userID)
	c.InvalidateKind(cache.KindMonth, userID)
	c.InvalidateKind(cache.KindWindow, userID)
}

// fetchTaken returns the days in [start, end] with at least one dose.
func fetchTaken(ctx context.Context, c client.Client, s session.Session, start, end dates.Date) (dates.Set, error) {
	logs, err := c.ListDoseLogs(ctx, s, nil, start, end)
	if err != nil {
		return nil, fmt.Errorf("list dose logs: %w", err)
	}
	return models.TakenDates(logs), nil
}
