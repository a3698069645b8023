package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/medkeeper/internal/calendar"
	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

// ErrSuperseded is returned by View when the selection changed while the
// month was being fetched. The result is not published.
var ErrSuperseded = errors.New("selection changed")

type monthSel struct {
	year, month int
}

// CalendarService keeps the selected month and builds its calendar page.
type CalendarService struct {
	client client.Client
	cache  *cache.Cache
	clock  dates.Clock

	mu      sync.Mutex
	sel     monthSel
	current *calendar.Month
}

// NewCalendarService starts on the current month.
func NewCalendarService(c client.Client, cc *cache.Cache, clock dates.Clock) *CalendarService {
	today := dates.Today(clock)
	return &CalendarService{
		client: c,
		cache:  cc,
		clock:  clock,
		sel:    monthSel{year: today.Year(), month: int(today.Month())},
	}
}

// Select changes the displayed month. month is 1-indexed.
func (c *CalendarService) Select(year, month int) error {
	if month < 1 || month > 12 || year < 1 {
		return fmt.Errorf("%w: %04d-%02d", common.ErrInvalidRange, year, month)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel = monthSel{year: year, month: month}
	return nil
}

// Next and Prev move the selection by one month.
func (c *CalendarService) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.year, c.sel.month = calendar.Next(c.sel.year, c.sel.month)
}

func (c *CalendarService) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.year, c.sel.month = calendar.Prev(c.sel.year, c.sel.month)
}

// Selected returns the selected year and month.
func (c *CalendarService) Selected() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.year, c.sel.month
}

// View fetches the selected month's taken days through the cache and
// builds its page. If the selection moved on meanwhile the page is
// returned with ErrSuperseded and Current keeps showing the newer one.
func (c *CalendarService) View(ctx context.Context, s session.Session) (calendar.Month, error) {
	if err := s.Valid(); err != nil {
		return calendar.Month{}, err
	}

	c.mu.Lock()
	sel := c.sel
	c.mu.Unlock()

	start, end, err := dates.MonthRange(sel.year, sel.month)
	if err != nil {
		return calendar.Month{}, err
	}

	key := cache.MonthKey(s.UserID, sel.year, sel.month)
	taken, err := cache.Load(ctx, c.cache, key, func(ctx context.Context) (dates.Set, error) {
		return fetchTaken(ctx, c.client, s, start, end)
	})
	if err != nil {
		return calendar.Month{}, err
	}

	page, err := calendar.Build(sel.year, sel.month, taken, dates.Today(c.clock))
	if err != nil {
		return calendar.Month{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sel != sel {
		return page, ErrSuperseded
	}
	c.current = &page
	return page, nil
}

// Current returns the last published page.
func (c *CalendarService) Current() (calendar.Month, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return calendar.Month{}, false
	}
	return *c.current, true
}
