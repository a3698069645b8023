package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/medkeeper/internal/models"
)

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printProfile(w io.Writer, p *models.Profile) {
	fmt.Fprintf(w, "Email:     %s\n", orDash(p.Email))
	fmt.Fprintf(w, "Full name: %s\n", orDash(p.FullName))
	fmt.Fprintf(w, "Phone:     %s\n", orDash(p.Phone))
}

// Profile prints the profile, creating it on first use.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	p, err := a.profile.Get(ctx, a.session)
	if err != nil {
		return a.fail(err)
	}
	printProfile(a.out, p)
	return nil
}

// EditProfile prompts for the editable fields. A blank answer clears the
// field.
func (a *App) EditProfile(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	var (
		upd models.ProfileUpdate
		err error
	)
	if upd.FullName, err = getOptionalText(a.reader, "Full name", a.out); err != nil {
		return err
	}
	if upd.Phone, err = getOptionalText(a.reader, "Phone", a.out); err != nil {
		return err
	}

	p, err := a.profile.Update(ctx, a.session, upd)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}
