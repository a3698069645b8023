package client

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/adherence"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/cryptox"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/google/uuid"
)

const memoryReportTTL = 15 * time.Minute

type memMedication struct {
	models.Medication
	seq int
}

type logKey struct {
	medicationID string
	day          dates.Date
}

// MemoryClient is an in-process Client with the same tenancy and error
// semantics as the backend. It is safe for concurrent use.
type MemoryClient struct {
	mu      sync.Mutex
	now     func() time.Time
	offline bool
	seq     int

	users    map[string]*models.User
	tokens   map[string]string
	meds     map[string]*memMedication
	logs     map[logKey]models.DoseLog
	profiles map[string]models.Profile
	reports  map[string][]byte
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		now:      time.Now,
		users:    map[string]*models.User{},
		tokens:   map[string]string{},
		meds:     map[string]*memMedication{},
		logs:     map[logKey]models.DoseLog{},
		profiles: map[string]models.Profile{},
		reports:  map[string][]byte{},
	}
}

// SetOffline makes every call fail with ErrTransient until reset.
func (m *MemoryClient) SetOffline(offline bool) {
	m.mu.Lock()
	m.offline = offline
	m.mu.Unlock()
}

// Report returns an exported report body.
func (m *MemoryClient) Report(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.reports[key]
	return b, ok
}

func (m *MemoryClient) Close() error { return nil }

func (m *MemoryClient) online() error {
	if m.offline {
		return fmt.Errorf("%w: memory backend offline", common.ErrTransient)
	}
	return nil
}

// user resolves s to its user id. Callers hold m.mu.
func (m *MemoryClient) user(s session.Session) (string, error) {
	if err := m.online(); err != nil {
		return "", err
	}
	if err := s.Valid(); err != nil {
		return "", err
	}
	if id, ok := m.tokens[s.AccessToken]; !ok || id != s.UserID {
		return "", fmt.Errorf("%w: unknown token", common.ErrUnauthorized)
	}
	return s.UserID, nil
}

func (m *MemoryClient) Register(_ context.Context, username string, salt, verifier []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.online(); err != nil {
		return err
	}
	if username == "" || len(username) > 100 || len(salt) == 0 || len(verifier) == 0 {
		return fmt.Errorf("%w: bad registration", common.ErrValidation)
	}
	if _, ok := m.users[username]; ok {
		return fmt.Errorf("%w: user %s", common.ErrDuplicate, username)
	}
	m.users[username] = &models.User{
		ID:        uuid.NewString(),
		UserName:  username,
		Salt:      slices.Clone(salt),
		Verifier:  slices.Clone(verifier),
		CreatedAt: m.now(),
	}
	return nil
}

// GetSalt answers with a random salt for unknown users, like the backend.
func (m *MemoryClient) GetSalt(_ context.Context, username string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.online(); err != nil {
		return nil, err
	}
	if u, ok := m.users[username]; ok {
		return slices.Clone(u.Salt), nil
	}
	return cryptox.NewSalt(), nil
}

func (m *MemoryClient) Login(_ context.Context, username string, verifier []byte) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.online(); err != nil {
		return session.Session{}, err
	}
	u, ok := m.users[username]
	if !ok || !cryptox.VerifierEqual(u.Verifier, verifier) {
		return session.Session{}, fmt.Errorf("%w: bad credentials", common.ErrUnauthorized)
	}
	token := uuid.NewString()
	m.tokens[token] = u.ID
	return session.Session{UserID: u.ID, UserName: username, AccessToken: token}, nil
}

func (m *MemoryClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online()
}

func (m *MemoryClient) ListMedications(_ context.Context, s session.Session) ([]models.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}

	own := make([]*memMedication, 0)
	for _, med := range m.meds {
		if med.UserID == userID {
			own = append(own, med)
		}
	}
	slices.SortFunc(own, func(a, b *memMedication) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]models.Medication, 0, len(own))
	for _, med := range own {
		out = append(out, med.Medication)
	}
	return out, nil
}

func (m *MemoryClient) CreateMedication(_ context.Context, s session.Session, in models.NewMedication) (*models.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}
	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := m.now()
	m.seq++
	med := &memMedication{
		Medication: models.Medication{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      in.Name,
			Dosage:    in.Dosage,
			Frequency: in.Frequency,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: m.seq,
	}
	m.meds[med.ID] = med
	out := med.Medication
	return &out, nil
}

func (m *MemoryClient) DeleteMedication(_ context.Context, s session.Session, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return err
	}
	med, ok := m.meds[id]
	if !ok || med.UserID != userID {
		return fmt.Errorf("%w: medication %s", common.ErrNotFound, id)
	}
	for k := range m.logs {
		if k.medicationID == id {
			delete(m.logs, k)
		}
	}
	delete(m.meds, id)
	return nil
}

func (m *MemoryClient) ListDoseLogs(_ context.Context, s session.Session, ids []string, start, end dates.Date) ([]models.DoseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, fmt.Errorf("%w: bad range %s..%s", common.ErrValidation, start, end)
	}

	out := make([]models.DoseLog, 0)
	for _, l := range m.logs {
		if l.UserID != userID || l.Date.Before(start) || l.Date.After(end) {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, l.MedicationID) {
			continue
		}
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b models.DoseLog) int {
		if c := a.Date.Time().Compare(b.Date.Time()); c != 0 {
			return c
		}
		return a.TakenAt.Compare(b.TakenAt)
	})
	return out, nil
}

func (m *MemoryClient) InsertDoseLog(_ context.Context, s session.Session, medicationID string, day dates.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return err
	}
	if day.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	med, ok := m.meds[medicationID]
	if !ok || med.UserID != userID {
		return fmt.Errorf("%w: medication %s", common.ErrNotFound, medicationID)
	}
	k := logKey{medicationID: medicationID, day: day}
	if _, ok := m.logs[k]; ok {
		return fmt.Errorf("%w: %s already taken on %s", common.ErrDuplicate, medicationID, day)
	}
	m.logs[k] = models.DoseLog{
		ID:           uuid.NewString(),
		MedicationID: medicationID,
		UserID:       userID,
		Date:         day,
		TakenAt:      m.now(),
	}
	return nil
}

func (m *MemoryClient) GetOrCreateProfile(_ context.Context, s session.Session, defaultName *string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}

	now := m.now()
	email := s.UserName
	p := models.Profile{
		ID:        userID,
		Email:     &email,
		FullName:  common.SanitizeOptional(defaultName, common.MaxFullNameLength),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.profiles[userID] = p
	return &p, nil
}

func (m *MemoryClient) UpdateProfile(_ context.Context, s session.Session, upd models.ProfileUpdate) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", common.ErrNotFound, userID)
	}
	upd = upd.Sanitized()
	p.FullName = upd.FullName
	p.Phone = upd.Phone
	p.UpdatedAt = m.now()
	m.profiles[userID] = p
	return &p, nil
}

type memoryReport struct {
	Today   dates.Date              `json:"today"`
	Weeks   []adherence.WeekSummary `json:"weeks"`
	Overall adherence.WeekSummary   `json:"overall"`
}

func (m *MemoryClient) ExportReport(_ context.Context, s session.Session, today dates.Date, windowDays int) (*ReportLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.user(s)
	if err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = common.DefaultAdherenceWindowDays
	}

	taken := dates.NewSet()
	for _, l := range m.logs {
		if l.UserID == userID {
			taken.Add(l.Date)
		}
	}
	weeks, err := adherence.Trailing(taken, today, windowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	body, err := json.Marshal(memoryReport{Today: today, Weeks: weeks, Overall: adherence.Overall(weeks)})
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("reports/%s/%s/%s.json", userID, today, uuid.NewString())
	m.reports[key] = body
	return &ReportLink{Key: key, URL: "memory://" + key, ExpiresAt: m.now().Add(memoryReportTTL)}, nil
}
