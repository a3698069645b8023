package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// ReportLink points at an exported adherence report.
type ReportLink struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// Client is the data access boundary. Failures are normalised to the
// sentinels of package common (ErrValidation, ErrUnauthorized, ErrDuplicate,
// ErrNotFound, ErrTransient).
type Client interface {
	Close() error
	Register(ctx context.Context, username string, salt, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (session.Session, error)
	Ping(ctx context.Context) error

	// ListMedications returns the newest medication first.
	ListMedications(ctx context.Context, s session.Session) ([]models.Medication, error)
	CreateMedication(ctx context.Context, s session.Session, in models.NewMedication) (*models.Medication, error)
	// DeleteMedication removes the medication's dose logs, then the medication.
	DeleteMedication(ctx context.Context, s session.Session, id string) error
	// ListDoseLogs filters by medication when ids is non-empty. Both ends of
	// the range are inclusive.
	ListDoseLogs(ctx context.Context, s session.Session, ids []string, start, end dates.Date) ([]models.DoseLog, error)
	// InsertDoseLog reports ErrDuplicate when the pair is already logged.
	InsertDoseLog(ctx context.Context, s session.Session, medicationID string, day dates.Date) error
	GetOrCreateProfile(ctx context.Context, s session.Session, defaultName *string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, s session.Session, upd models.ProfileUpdate) (*models.Profile, error)
	ExportReport(ctx context.Context, s session.Session, today dates.Date, windowDays int) (*ReportLink, error)
}
