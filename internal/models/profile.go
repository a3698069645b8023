package models

import (
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
)

// Profile holds the user's display details. ID equals the user id.
type Profile struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email,omitempty"`
	FullName  *string   `json:"full_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate carries editable profile fields. Nil or blank clears a field.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (u ProfileUpdate) Sanitized() ProfileUpdate {
	return ProfileUpdate{
		FullName: common.SanitizeOptional(u.FullName, common.MaxFullNameLength),
		Phone:    common.SanitizeOptional(u.Phone, common.MaxPhoneLength),
	}
}

// User is a backend account. Salt and Verifier come from the client-side key
// derivation; the server never sees the password.
type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
