package metadata

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/client/session"
)

// SaveSession stores the three session keys. Run it inside a transaction
// so a partial session is never left behind.
func SaveSession(ctx context.Context, r Repository, s session.Session) error {
	for _, kv := range []struct {
		key, value string
	}{
		{KeyUserName, s.UserName},
		{KeyUserID, s.UserID},
		{KeyAccessToken, s.AccessToken},
	} {
		if err := r.Set(ctx, kv.key, []byte(kv.value)); err != nil {
			return err
		}
	}
	return nil
}

// LoadSession reads the saved session. Missing keys come back empty; the
// caller decides with Session.Valid.
func LoadSession(ctx context.Context, r Repository) (session.Session, error) {
	all, err := r.List(ctx)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{
		UserName:    string(all[KeyUserName]),
		UserID:      string(all[KeyUserID]),
		AccessToken: string(all[KeyAccessToken]),
	}, nil
}
