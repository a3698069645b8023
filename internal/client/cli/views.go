package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/adherence"
	"github.com/dmitrijs2005/medkeeper/internal/calendar"
	"github.com/dmitrijs2005/medkeeper/internal/client/services"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/filex"
)

const (
	barWidth   = 20
	reportsDir = "reports"
)

func markerGlyph(m calendar.Marker) byte {
	switch m {
	case calendar.MarkerToday:
		return '<'
	case calendar.MarkerTaken:
		return '*'
	case calendar.MarkerMissed:
		return '.'
	default:
		return ' '
	}
}

// renderMonth draws m as a text grid, four columns per day.
func renderMonth(m calendar.Month) string {
	var b strings.Builder
	b.WriteString(m.Title())
	b.WriteByte('\n')
	var head strings.Builder
	for i := range 7 {
		wd := time.Weekday((int(calendar.FirstWeekday) + i) % 7)
		fmt.Fprintf(&head, "%-4s", wd.String()[:2])
	}
	b.WriteString(strings.TrimRight(head.String(), " "))
	b.WriteByte('\n')

	for _, row := range m.Weeks() {
		var line strings.Builder
		for _, c := range row {
			if c.IsPadding() {
				line.WriteString("    ")
				continue
			}
			fmt.Fprintf(&line, "%2d%c ", c.Day, markerGlyph(c.Marker))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	b.WriteString("* taken  . missed  < today\n")
	return b.String()
}

// selectMonth applies a calendar argument: next, prev or YYYY-MM.
func (a *App) selectMonth(arg string) error {
	switch arg {
	case "":
		return nil
	case "next":
		a.calendar.Next()
		return nil
	case "prev":
		a.calendar.Prev()
		return nil
	}
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return fmt.Errorf("%w: expected next, prev or YYYY-MM, got %q", common.ErrInvalidRange, arg)
	}
	return a.calendar.Select(t.Year(), int(t.Month()))
}

// Calendar prints the selected month, optionally moving the selection first.
func (a *App) Calendar(ctx context.Context, arg string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.selectMonth(arg); err != nil {
		return a.fail(err)
	}
	page, err := a.calendar.View(ctx, a.session)
	if errors.Is(err, services.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprint(a.out, renderMonth(page))
	return nil
}

func bar(percent int) string {
	n := percent * barWidth / 100
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}

func printWeek(w io.Writer, s adherence.WeekSummary) {
	fmt.Fprintf(w, "%-4s %s..%s %s %d/%d %3d%%\n", s.Label, s.Start, s.End, bar(s.RatePercent), s.TakenDays, s.TotalDays, s.RatePercent)
}

// Progress prints weekly adherence over the configured window.
func (a *App) Progress(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	p, err := a.progress.Weekly(ctx, a.session)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Adherence, last %d days\n", a.progress.WindowDays())
	for _, wk := range p.Weeks {
		printWeek(a.out, wk)
	}
	printWeek(a.out, p.Overall)
	return nil
}

// Export publishes the progress window as a report and prints its link.
// With "save" the report is also downloaded into ./reports.
func (a *App) Export(ctx context.Context, arg string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if arg != "" && arg != "save" {
		return a.fail(fmt.Errorf("%w: usage: export [save]", common.ErrValidation))
	}
	link, err := a.progress.Export(ctx, a.session)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n(valid until %s)\n", link.URL, link.ExpiresAt.Local().Format(time.DateTime))
	if arg == "" {
		return nil
	}

	body, err := a.fetchReport(ctx, link)
	if err != nil {
		return a.fail(fmt.Errorf("download report: %w", err))
	}
	saved, err := filex.WriteInSubDir(reportsDir, path.Base(link.Key), body)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Saved to", saved)
	return nil
}
