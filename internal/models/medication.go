// Package models defines the records shared by the MedKeeper client and server.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

// Medication is a drug the user tracks. Frequency and Notes are optional.
type Medication struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency *string   `json:"frequency,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMedication is the input of a create request.
type NewMedication struct {
	Name      string  `json:"name"`
	Dosage    string  `json:"dosage"`
	Frequency *string `json:"frequency,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Sanitized trims every field and caps it at its maximum length. Blank
// optional fields become nil.
func (in NewMedication) Sanitized() NewMedication {
	return NewMedication{
		Name:      common.Sanitize(in.Name, common.MaxNameLength),
		Dosage:    common.Sanitize(in.Dosage, common.MaxDosageLength),
		Frequency: common.SanitizeOptional(in.Frequency, common.MaxFrequencyLength),
		Notes:     common.SanitizeOptional(in.Notes, common.MaxNotesLength),
	}
}

// Validate expects a sanitized value.
func (in NewMedication) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if in.Dosage == "" {
		return fmt.Errorf("%w: dosage is required", common.ErrValidation)
	}
	return nil
}

// DoseLog records that a medication was taken on a calendar day. There is at
// most one per (MedicationID, Date).
type DoseLog struct {
	ID           string     `json:"id"`
	MedicationID string     `json:"medication_id"`
	UserID       string     `json:"user_id"`
	Date         dates.Date `json:"date"`
	Notes        *string    `json:"notes,omitempty"`
	TakenAt      time.Time  `json:"taken_at"`
}

// TakenDates collapses logs into the set of days with at least one dose.
func TakenDates(logs []DoseLog) dates.Set {
	s := dates.NewSet()
	for _, l := range logs {
		s.Add(l.Date)
	}
	return s
}
