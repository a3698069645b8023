package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logID = "0a0b0c0d-0e0f-4011-8213-141516171819"

func newDoseLogService(t *testing.T, s *memStore) *DoseLogService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewDoseLogService(db, &fakeRepoManager{s})
}

func TestDoseLogInsert(t *testing.T) {
	fixedIDs(t, logID)
	s := newMemStore()
	s.meds[medA] = models.Medication{ID: medA, UserID: "u1"}
	svc := newDoseLogService(t, s)
	day := dates.MustParse("2024-03-05")

	l, err := svc.Insert(context.Background(), "u1", medA, day, ptr("  "))
	require.NoError(t, err)
	assert.Equal(t, logID, l.ID)
	assert.Equal(t, day, l.Date)
	assert.Nil(t, l.Notes)

	_, err = svc.Insert(context.Background(), "u1", medA, day, nil)
	assert.ErrorIs(t, err, common.ErrDuplicate)
}

func TestDoseLogInsert_OtherUsersMedication(t *testing.T) {
	s := newMemStore()
	s.meds[medA] = models.Medication{ID: medA, UserID: "u2"}
	svc := newDoseLogService(t, s)

	_, err := svc.Insert(context.Background(), "u1", medA, dates.MustParse("2024-03-05"), nil)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NotContains(t, s.calls, "logs.insert")
}

func TestDoseLogInsert_Validation(t *testing.T) {
	s := newMemStore()
	svc := newDoseLogService(t, s)

	_, err := svc.Insert(context.Background(), "u1", "bad", dates.MustParse("2024-03-05"), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.Insert(context.Background(), "u1", medA, dates.Date{}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, s.calls)
}

func TestDoseLogList(t *testing.T) {
	s := newMemStore()
	s.logs["1"] = models.DoseLog{ID: "1", MedicationID: medA, UserID: "u1", Date: dates.MustParse("2024-03-01")}
	s.logs["2"] = models.DoseLog{ID: "2", MedicationID: medB, UserID: "u1", Date: dates.MustParse("2024-03-02")}
	s.logs["3"] = models.DoseLog{ID: "3", MedicationID: medA, UserID: "u1", Date: dates.MustParse("2024-04-01")}
	svc := newDoseLogService(t, s)
	start, end := dates.MustParse("2024-03-01"), dates.MustParse("2024-03-31")

	all, err := svc.List(context.Background(), "u1", nil, start, end)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := svc.List(context.Background(), "u1", []string{medA}, start, end)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "1", onlyA[0].ID)
}

func TestDoseLogList_Validation(t *testing.T) {
	s := newMemStore()
	svc := newDoseLogService(t, s)
	day := dates.MustParse("2024-03-05")

	tests := []struct {
		name       string
		ids        []string
		start, end dates.Date
	}{
		{"reversed", nil, day, day.AddDays(-1)},
		{"zero start", nil, dates.Date{}, day},
		{"too long", nil, day, day.AddDays(MaxLogRangeDays)},
		{"bad id", []string{"x"}, day, day},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), "u1", tt.ids, tt.start, tt.end)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
	assert.Empty(t, s.calls)
}
