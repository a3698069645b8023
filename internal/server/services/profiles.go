package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
)

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// GetOrCreate returns the user's profile, creating it with defaultName as
// the full name and the account's username as the email on first access.
// Two concurrent first calls both end up with the row that won the insert.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string, defaultName *string) (*models.Profile, error) {
	repo := s.repomanager.Profiles(s.db)

	p, err := repo.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error getting profile: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	email := user.UserName
	p = &models.Profile{
		ID:       userID,
		Email:    &email,
		FullName: common.SanitizeOptional(defaultName, common.MaxFullNameLength),
	}
	err = repo.Create(ctx, p)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, common.ErrDuplicate):
		p, err = repo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("error getting profile: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
}

// Update sanitizes upd and stores it. The profile must exist.
func (s *ProfileService) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	upd = upd.Sanitized()

	p, err := s.repomanager.Profiles(s.db).Update(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return p, nil
}
