package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/adherence"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/config"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/medkeeper/internal/server/storage"
)

// MaxReportWindowDays bounds the export window.
const MaxReportWindowDays = 366

// Report is the JSON document uploaded by Export.
type Report struct {
	UserID      string                  `json:"user_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Today       dates.Date              `json:"today"`
	WindowDays  int                     `json:"window_days"`
	Medications []models.Medication     `json:"medications"`
	Weeks       []adherence.WeekSummary `json:"weeks"`
	Overall     adherence.WeekSummary   `json:"overall"`
	Days        []adherence.DayStatus   `json:"days"`
}

// ExportResult points at an uploaded report.
type ExportResult struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ReportService builds adherence reports and publishes them to object storage.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ReportStore
	urlTTL      time.Duration
	clock       dates.Clock
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, store storage.ReportStore, cfg *config.Config) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		store:       store,
		urlTTL:      cfg.ReportURLValidityDuration,
		clock:       time.Now,
	}
}

// Build computes the trailing-window report ending on today, the caller's
// local date. A non-positive window means the default.
func (s *ReportService) Build(ctx context.Context, userID string, today dates.Date, windowDays int) (*Report, error) {
	if windowDays <= 0 {
		windowDays = common.DefaultAdherenceWindowDays
	}
	if windowDays > MaxReportWindowDays || today.IsZero() {
		return nil, fmt.Errorf("%w: bad report window", common.ErrValidation)
	}

	start, end, err := dates.Window(today, windowDays)
	if err != nil {
		return nil, err
	}

	meds, err := s.repomanager.Medications(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing medications: %w", err)
	}
	logs, err := s.repomanager.DoseLogs(s.db).List(ctx, userID, nil, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing dose logs: %w", err)
	}

	taken := models.TakenDates(logs)
	weeks, err := adherence.Weekly(taken, start, end, today)
	if err != nil {
		return nil, err
	}
	days, err := adherence.Days(taken, start, end, today)
	if err != nil {
		return nil, err
	}

	return &Report{
		UserID:      userID,
		GeneratedAt: s.clock().UTC(),
		Today:       today,
		WindowDays:  windowDays,
		Medications: meds,
		Weeks:       weeks,
		Overall:     adherence.Overall(weeks),
		Days:        days,
	}, nil
}

// Export builds the report, uploads it and returns a presigned download URL.
func (s *ReportService) Export(ctx context.Context, userID string, today dates.Date, windowDays int) (*ExportResult, error) {
	report, err := s.Build(ctx, userID, today, windowDays)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s/%s.json", userID, today, newID())
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransient, err)
	}

	url, err := s.store.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransient, err)
	}

	return &ExportResult{Key: key, URL: url, ExpiresAt: s.clock().Add(s.urlTTL)}, nil
}
