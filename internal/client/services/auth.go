// Package services contains the application services of the MedKeeper CLI:
// authentication, medications, today's doses, the month calendar, weekly
// progress and the profile. Every data call carries an explicit
// session.Session.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/cryptox"
	"github.com/dmitrijs2005/medkeeper/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate and persist the session locally.
//   - Restore: load the locally saved session, if any.
//   - Logout: wipe the saved session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (session.Session, error)
	Restore(ctx context.Context) (session.Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	db       *sql.DB
	notifier Notifier
}

// NewAuthService constructs an AuthService bound to the given API client and
// local database.
func NewAuthService(c client.Client, db *sql.DB, n Notifier) AuthService {
	return &authService{client: c, db: db, notifier: n}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func validUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	return username, nil
}

// Register generates a fresh salt, derives the verifier from password and
// sends both to the server. The password itself never leaves the process.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	return report(ctx, a.notifier, ActionRegister, a.register(ctx, username, password))
}

func (a *authService) register(ctx context.Context, username string, password []byte) error {
	username, err := validUsername(username)
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	salt := cryptox.NewSalt()
	if err := a.client.Register(ctx, username, salt, cryptox.Credentials(password, salt)); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login authenticates against the server and saves the session (username,
// user id, access token) to the local store.
func (a *authService) Login(ctx context.Context, username string, password []byte) (session.Session, error) {
	s, err := a.login(ctx, username, password)
	return s, report(ctx, a.notifier, ActionLogin, err)
}

func (a *authService) login(ctx context.Context, username string, password []byte) (session.Session, error) {
	username, err := validUsername(username)
	if err != nil {
		return session.Session{}, err
	}

	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return session.Session{}, fmt.Errorf("get salt error: %w", err)
	}

	s, err := a.client.Login(ctx, username, cryptox.Credentials(password, salt))
	if err != nil {
		return session.Session{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.saveSession(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) saveSession(ctx context.Context, s session.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.SaveSession(ctx, metadata.NewSQLiteRepository(tx), s)
	})
}

// Restore returns the saved session. A missing or partial one is
// ErrUnauthorized. The token is not checked against the server; an expired
// one surfaces on the first call.
func (a *authService) Restore(ctx context.Context) (session.Session, error) {
	s, err := metadata.LoadSession(ctx, a.getMetadataRepo())
	if err != nil {
		return session.Session{}, err
	}
	if err := s.Valid(); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

// Logout wipes the saved session.
func (a *authService) Logout(ctx context.Context) error {
	err := a.getMetadataRepo().Clear(ctx)
	if err != nil {
		err = fmt.Errorf("logout error: %w", err)
	}
	return report(ctx, a.notifier, ActionLogout, err)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
