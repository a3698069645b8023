package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/models"
)

// resolveRef accepts a 1-based position in ids or an id itself.
func resolveRef(ref string, ids []string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("%w: no item number %d", common.ErrNotFound, n)
		}
		return ids[n-1], nil
	}
	if slices.Contains(ids, ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: no item %q", common.ErrNotFound, ref)
}

func describeMedication(m models.Medication) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteString(" ")
	b.WriteString(m.Dosage)
	if m.Frequency != nil {
		fmt.Fprintf(&b, " (%s)", *m.Frequency)
	}
	return b.String()
}

func printMedications(w io.Writer, meds []models.Medication) {
	if len(meds) == 0 {
		fmt.Fprintln(w, "No medications yet. Use 'add' to create one.")
		return
	}
	for i, m := range meds {
		fmt.Fprintf(w, "%d. %s\n", i+1, describeMedication(m))
		if m.Notes != nil {
			fmt.Fprintf(w, "   %s\n", *m.Notes)
		}
	}
}

// ListMedications prints the user's medications, newest first.
func (a *App) ListMedications(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	meds, err := a.meds.List(ctx, a.session)
	if err != nil {
		return a.fail(err)
	}
	printMedications(a.out, meds)
	return nil
}

// AddMedication prompts for the fields of a new medication.
func (a *App) AddMedication(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	var (
		in  models.NewMedication
		err error
	)
	if in.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if in.Dosage, err = getSimpleText(a.reader, "Dosage", a.out); err != nil {
		return err
	}
	if in.Frequency, err = getOptionalText(a.reader, "Frequency", a.out); err != nil {
		return err
	}
	if in.Notes, err = getOptionalText(a.reader, "Notes", a.out); err != nil {
		return err
	}

	_, err = a.meds.Add(ctx, a.session, in)
	return err
}

// DeleteMedication removes the medication given by list number or id,
// together with its dose history.
func (a *App) DeleteMedication(ctx context.Context, ref string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	meds, err := a.meds.List(ctx, a.session)
	if err != nil {
		return a.fail(err)
	}
	ids := make([]string, len(meds))
	for i, m := range meds {
		ids[i] = m.ID
	}
	id, err := resolveRef(ref, ids)
	if err != nil {
		return a.fail(err)
	}
	return a.meds.Delete(ctx, a.session, id)
}
