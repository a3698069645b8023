// Package common defines shared constants, input limits and sentinel errors
// used across client and server layers of MedKeeper. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// ErrValidation reports bad input shape or length. Shown inline on the
	// offending field.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized reports a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicate reports that the record already exists. Idempotent writes
	// swallow it.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound is returned by repositories when a row is absent.
	ErrNotFound = errors.New("not found")

	// ErrTransient reports a network or backend failure.
	ErrTransient = errors.New("backend unavailable")

	// ErrInvalidRange is a programmer error in date-window computation.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrAlreadySaving is returned when a mark-as-taken request for the same
	// medication is still in flight.
	ErrAlreadySaving = errors.New("already saving")

	// ErrInvalidToken is returned when an access token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
