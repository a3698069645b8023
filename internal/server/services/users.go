// Package services contains server-side business logic. Each service takes
// the database handle and a repomanager.RepositoryManager and scopes every
// call to the authenticated user id.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/cryptox"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/auth"
	"github.com/dmitrijs2005/medkeeper/internal/server/config"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
)

// MaxUserNameLength caps account names.
const MaxUserNameLength = 100

// LoginResult is returned by a successful Login.
type LoginResult struct {
	UserID      string
	AccessToken string
}

// UserService handles registration, salt lookup and login.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a user with the given username, salt, and verifier.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error) {
	username = common.Sanitize(username, MaxUserNameLength)
	if username == "" || len(salt) == 0 || len(verifier) == 0 {
		return nil, fmt.Errorf("%w: username, salt and verifier are required", common.ErrValidation)
	}

	user := &models.User{UserName: username, Salt: salt, Verifier: verifier}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// GetSalt returns the user's stored salt or a random salt if the user is
// absent, so that the response does not reveal whether the account exists.
func (s *UserService) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, common.Sanitize(userName, MaxUserNameLength))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return cryptox.NewSalt(), nil
		}
		return nil, fmt.Errorf("error getting salt: %w", err)
	}
	return user.Salt, nil
}

// Login checks verifierCandidate against the stored verifier and issues an
// access token.
func (s *UserService) Login(ctx context.Context, userName string, verifierCandidate []byte) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, common.Sanitize(userName, MaxUserNameLength))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if !cryptox.VerifierEqual(user.Verifier, verifierCandidate) {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &LoginResult{UserID: user.ID, AccessToken: token}, nil
}
