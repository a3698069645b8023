package api

import (
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type ListMedicationsResponse struct {
	Medications []models.Medication `json:"medications"`
}

type CreateMedicationRequest struct {
	models.NewMedication
}

type MedicationResponse struct {
	Medication models.Medication `json:"medication"`
}

type DeleteMedicationRequest struct {
	ID string `json:"id"`
}

type ListDoseLogsRequest struct {
	MedicationIDs []string   `json:"medication_ids"`
	Start         dates.Date `json:"start"`
	End           dates.Date `json:"end"`
}

type ListDoseLogsResponse struct {
	Logs []models.DoseLog `json:"logs"`
}

type InsertDoseLogRequest struct {
	MedicationID string     `json:"medication_id"`
	Date         dates.Date `json:"date"`
	Notes        *string    `json:"notes,omitempty"`
}

type GetOrCreateProfileRequest struct {
	DefaultName *string `json:"default_name,omitempty"`
}

type UpdateProfileRequest struct {
	models.ProfileUpdate
}

type ProfileResponse struct {
	Profile models.Profile `json:"profile"`
}

type ExportReportRequest struct {
	Today      dates.Date `json:"today"`
	WindowDays int        `json:"window_days"`
}

type ExportReportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
