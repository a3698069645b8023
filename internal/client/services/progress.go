package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/adherence"
	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

// Progress is the trailing-window adherence chart.
type Progress struct {
	Start   dates.Date
	End     dates.Date
	Weeks   []adherence.WeekSummary
	Overall adherence.WeekSummary
	Days    []adherence.DayStatus
}

// ProgressService computes weekly adherence over a trailing window.
type ProgressService struct {
	client     client.Client
	cache      *cache.Cache
	notifier   Notifier
	clock      dates.Clock
	windowDays int
}

// NewProgressService uses the default window when windowDays is not
// positive.
func NewProgressService(c client.Client, cc *cache.Cache, n Notifier, clock dates.Clock, windowDays int) *ProgressService {
	if windowDays <= 0 {
		windowDays = common.DefaultAdherenceWindowDays
	}
	return &ProgressService{client: c, cache: cc, notifier: n, clock: clock, windowDays: windowDays}
}

func (p *ProgressService) WindowDays() int { return p.windowDays }

func (p *ProgressService) Weekly(ctx context.Context, s session.Session) (*Progress, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	today := dates.Today(p.clock)
	start, end, err := dates.Window(today, p.windowDays)
	if err != nil {
		return nil, err
	}

	taken, err := cache.Load(ctx, p.cache, cache.WindowKey(s.UserID, start, end), func(ctx context.Context) (dates.Set, error) {
		return fetchTaken(ctx, p.client, s, start, end)
	})
	if err != nil {
		return nil, err
	}

	weeks, err := adherence.Weekly(taken, start, end, today)
	if err != nil {
		return nil, err
	}
	days, err := adherence.Days(taken, start, end, today)
	if err != nil {
		return nil, err
	}
	return &Progress{Start: start, End: end, Weeks: weeks, Overall: adherence.Overall(weeks), Days: days}, nil
}

// Export asks the backend to publish the window as a report and returns
// a time-limited link to it.
func (p *ProgressService) Export(ctx context.Context, s session.Session) (*client.ReportLink, error) {
	link, err := p.export(ctx, s)
	return link, report(ctx, p.notifier, ActionExportReport, err)
}

func (p *ProgressService) export(ctx context.Context, s session.Session) (*client.ReportLink, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	link, err := p.client.ExportReport(ctx, s, dates.Today(p.clock), p.windowDays)
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	return link, nil
}
