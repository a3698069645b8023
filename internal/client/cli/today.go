package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/client/services"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

func stateBox(st services.DoseState) string {
	switch st {
	case services.Taken:
		return "[x]"
	case services.Saving:
		return "[~]"
	case services.SavingFailed:
		return "[!]"
	default:
		return "[ ]"
	}
}

// greeting depends on the local hour of now.
func greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func printToday(w io.Writer, now time.Time, day dates.Date, items []services.TodayItem, c services.Counts) {
	fmt.Fprintf(w, "%s! Today %s: %d/%d taken (%d%%)\n", greeting(now), day, c.Taken, c.Total, c.Percent)
	if len(items) == 0 {
		fmt.Fprintln(w, "No medications yet. Use 'add' to create one.")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, stateBox(it.State), describeMedication(it.Medication))
	}
}

// Today loads and prints today's list.
func (a *App) Today(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if _, err := a.today.Load(ctx, a.session); err != nil {
		return a.fail(err)
	}
	printToday(a.out, a.clock(), a.today.Day(), a.today.Items(), a.today.Counts())
	return nil
}

// Take marks the medication given by today's list number or id as taken.
// The row flips immediately; the save finishes in the background and its
// outcome is reported by the notifier.
func (a *App) Take(ctx context.Context, ref string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	items, err := a.today.Load(ctx, a.session)
	if err != nil {
		return a.fail(err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Medication.ID
	}
	id, err := resolveRef(ref, ids)
	if err != nil {
		return a.fail(err)
	}

	if _, err := a.today.MarkTaken(ctx, a.session, id); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadySaving):
			fmt.Fprintln(a.out, "Still saving, please wait.")
		case errors.Is(err, services.ErrAlreadyTaken):
			fmt.Fprintln(a.out, "Already taken today.")
		default:
			a.fail(err)
		}
		return err
	}
	printToday(a.out, a.clock(), a.today.Day(), a.today.Items(), a.today.Counts())
	return nil
}
