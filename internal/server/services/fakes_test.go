package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/dbx"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/doselogs"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/medications"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memStore is an in-memory backing for the fake repositories.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	meds     map[string]models.Medication
	logs     map[string]models.DoseLog
	profiles map[string]models.Profile
	calls    []string

	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		meds:     map[string]models.Medication{},
		logs:     map[string]models.DoseLog{},
		profiles: map[string]models.Profile{},
		failOn:   map[string]error{},
	}
}

func (s *memStore) record(op string) error {
	s.calls = append(s.calls, op)
	return s.failOn[op]
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return fakeUsers{m.s} }
func (m *fakeRepoManager) Medications(dbx.DBTX) medications.Repository  { return fakeMeds{m.s} }
func (m *fakeRepoManager) DoseLogs(dbx.DBTX) doselogs.Repository        { return fakeLogs{m.s} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return fakeProfiles{m.s} }

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("users.create"); err != nil {
		return nil, err
	}
	if _, ok := f.s.users[u.UserName]; ok {
		return nil, common.ErrDuplicate
	}
	u.ID = "id-" + u.UserName
	f.s.users[u.UserName] = u
	return u, nil
}

func (f fakeUsers) GetUserByLogin(_ context.Context, name string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("users.get"); err != nil {
		return nil, err
	}
	u, ok := f.s.users[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("users.byid"); err != nil {
		return nil, err
	}
	for _, u := range f.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeMeds struct{ s *memStore }

func (f fakeMeds) List(_ context.Context, userID string) ([]models.Medication, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("meds.list"); err != nil {
		return nil, err
	}
	out := []models.Medication{}
	for _, m := range f.s.meds {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f fakeMeds) Get(_ context.Context, userID, id string) (*models.Medication, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("meds.get"); err != nil {
		return nil, err
	}
	m, ok := f.s.meds[id]
	if !ok || m.UserID != userID {
		return nil, common.ErrNotFound
	}
	return &m, nil
}

func (f fakeMeds) Create(_ context.Context, m *models.Medication) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("meds.create"); err != nil {
		return err
	}
	f.s.meds[m.ID] = *m
	return nil
}

func (f fakeMeds) Delete(_ context.Context, userID, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("meds.delete"); err != nil {
		return err
	}
	m, ok := f.s.meds[id]
	if !ok || m.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.s.meds, id)
	return nil
}

type fakeLogs struct{ s *memStore }

func (f fakeLogs) List(_ context.Context, userID string, ids []string, start, end dates.Date) ([]models.DoseLog, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("logs.list"); err != nil {
		return nil, err
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.DoseLog{}
	for _, l := range f.s.logs {
		if l.UserID != userID || l.Date.Before(start) || l.Date.After(end) {
			continue
		}
		if len(ids) > 0 && !want[l.MedicationID] {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f fakeLogs) Insert(_ context.Context, l *models.DoseLog) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("logs.insert"); err != nil {
		return err
	}
	for _, e := range f.s.logs {
		if e.MedicationID == l.MedicationID && e.Date == l.Date {
			return common.ErrDuplicate
		}
	}
	f.s.logs[l.ID] = *l
	return nil
}

func (f fakeLogs) DeleteByMedication(_ context.Context, userID, medicationID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("logs.deleteByMedication"); err != nil {
		return err
	}
	for id, l := range f.s.logs {
		if l.UserID == userID && l.MedicationID == medicationID {
			delete(f.s.logs, id)
		}
	}
	return nil
}

type fakeProfiles struct{ s *memStore }

func (f fakeProfiles) Get(_ context.Context, id string) (*models.Profile, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("profiles.get"); err != nil {
		return nil, err
	}
	p, ok := f.s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("profiles.create"); err != nil {
		return err
	}
	if _, ok := f.s.profiles[p.ID]; ok {
		return common.ErrDuplicate
	}
	f.s.profiles[p.ID] = *p
	return nil
}

func (f fakeProfiles) Update(_ context.Context, id string, upd models.ProfileUpdate) (*models.Profile, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.record("profiles.update"); err != nil {
		return nil, err
	}
	p, ok := f.s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	p.FullName, p.Phone = upd.FullName, upd.Phone
	f.s.profiles[id] = p
	return &p, nil
}

func ptr(s string) *string { return &s }
