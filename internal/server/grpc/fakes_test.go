package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/services"
)

type fakeUsers struct {
	loginErr error
}

func (f *fakeUsers) Register(_ context.Context, username string, salt, verifier []byte) (*models.User, error) {
	if username == "taken" {
		return nil, common.ErrDuplicate
	}
	return &models.User{ID: "u-" + username, UserName: username}, nil
}

func (f *fakeUsers) GetSalt(_ context.Context, username string) ([]byte, error) {
	return []byte("salt-" + username), nil
}

func (f *fakeUsers) Login(_ context.Context, username string, verifier []byte) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if string(verifier) != "good" {
		return nil, common.ErrUnauthorized
	}
	return &services.LoginResult{UserID: "u-" + username, AccessToken: "tok"}, nil
}

type fakeMeds struct {
	gotUser string
	listErr error
}

func (f *fakeMeds) List(_ context.Context, userID string) ([]models.Medication, error) {
	f.gotUser = userID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []models.Medication{{ID: "m1", UserID: userID, Name: "Aspirin", Dosage: "81mg"}}, nil
}

func (f *fakeMeds) Create(_ context.Context, userID string, in models.NewMedication) (*models.Medication, error) {
	if in.Name == "" {
		return nil, common.ErrValidation
	}
	return &models.Medication{ID: "m2", UserID: userID, Name: in.Name, Dosage: in.Dosage, Frequency: in.Frequency}, nil
}

func (f *fakeMeds) Delete(_ context.Context, userID, id string) error {
	if id == "missing" {
		return common.ErrNotFound
	}
	return nil
}

type fakeLogs struct {
	inserted map[string]dates.Date
}

func (f *fakeLogs) List(_ context.Context, userID string, ids []string, start, end dates.Date) ([]models.DoseLog, error) {
	return []models.DoseLog{{ID: "l1", MedicationID: "m1", UserID: userID, Date: start}}, nil
}

func (f *fakeLogs) Insert(_ context.Context, userID, medicationID string, day dates.Date, notes *string) (*models.DoseLog, error) {
	if f.inserted == nil {
		f.inserted = map[string]dates.Date{}
	}
	if d, ok := f.inserted[medicationID]; ok && d == day {
		return nil, common.ErrDuplicate
	}
	f.inserted[medicationID] = day
	return &models.DoseLog{ID: "l2", MedicationID: medicationID, Date: day}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetOrCreate(_ context.Context, userID string, defaultName *string) (*models.Profile, error) {
	return &models.Profile{ID: userID, FullName: defaultName}, nil
}

func (fakeProfiles) Update(_ context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	return &models.Profile{ID: userID, FullName: upd.FullName, Phone: upd.Phone}, nil
}

type fakeReports struct {
	err error
}

func (f fakeReports) Export(_ context.Context, userID string, today dates.Date, windowDays int) (*services.ExportResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.ExportResult{
		Key:       "reports/" + userID + "/" + today.String() + "/r.json",
		URL:       "https://s3.local/r.json",
		ExpiresAt: time.Date(2024, 3, 28, 12, 15, 0, 0, time.UTC),
	}, nil
}

func newFakeServices() Services {
	return Services{
		Users:       &fakeUsers{},
		Medications: &fakeMeds{},
		DoseLogs:    &fakeLogs{},
		Profiles:    fakeProfiles{},
		Reports:     fakeReports{},
	}
}
