package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

type ProfileService struct {
	client   client.Client
	cache    *cache.Cache
	notifier Notifier
}

func NewProfileService(c client.Client, cc *cache.Cache, n Notifier) *ProfileService {
	return &ProfileService{client: c, cache: cc, notifier: n}
}

// Get returns the profile, creating it on first read with the session's
// display name.
func (p *ProfileService) Get(ctx context.Context, s session.Session) (*models.Profile, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return cache.Load(ctx, p.cache, cache.ProfileKey(s.UserID), func(ctx context.Context) (*models.Profile, error) {
		name := s.DisplayName()
		return p.client.GetOrCreateProfile(ctx, s, &name)
	})
}

// Update sanitizes upd and stores it. Nil or blank fields are cleared.
func (p *ProfileService) Update(ctx context.Context, s session.Session, upd models.ProfileUpdate) (*models.Profile, error) {
	prof, err := p.update(ctx, s, upd)
	return prof, report(ctx, p.notifier, ActionUpdateProfile, err)
}

func (p *ProfileService) update(ctx context.Context, s session.Session, upd models.ProfileUpdate) (*models.Profile, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	if _, err := p.Get(ctx, s); err != nil {
		return nil, err
	}

	prof, err := p.client.UpdateProfile(ctx, s, upd.Sanitized())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	p.cache.Invalidate(cache.ProfileKey(s.UserID))
	return prof, nil
}
