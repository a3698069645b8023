package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = fmt.Errorf("%w: please log in first", common.ErrUnauthorized)

// userMessage turns an error into a one-line message for the prompt.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "invalid input: " + err.Error()
	case errors.Is(err, common.ErrUnauthorized):
		return "not authorized, please log in again"
	case errors.Is(err, common.ErrDuplicate):
		return "already exists"
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrTransient):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}

// Register prompts the user for an email and password and attempts to create
// a new account via the AuthService. The outcome is reported by the
// notifier. The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.auth.Register(ctx, userName, password)
}

// Login prompts the user for credentials and authenticates. On success the
// session is kept for subsequent commands and saved locally.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return err
	}
	a.session = s
	a.log.Info(ctx, "logged in", "user_id", s.UserID)
	return nil
}

// Logout forgets the session locally and in memory. Doses still being
// saved are allowed to finish first.
func (a *App) Logout(ctx context.Context) error {
	a.today.Wait()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.session = session.Session{}
	return nil
}

func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, userMessage(errNotLoggedIn))
		return errNotLoggedIn
	}
	return nil
}

// fail prints err for commands whose service does not notify.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "error:", userMessage(err))
	return err
}
