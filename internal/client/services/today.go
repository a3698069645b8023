package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/medkeeper/internal/adherence"
	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyTaken is returned by MarkTaken for a dose logged earlier today.
// There is no way to unmark it.
var ErrAlreadyTaken = errors.New("already taken today")

// DoseState is the state of one medication's dose for today.
//
//	Untaken --MarkTaken--> Saving --ok/duplicate--> Taken
//	                         \--failure--> SavingFailed --> Untaken
type DoseState int

const (
	Untaken DoseState = iota
	Saving
	Taken
	SavingFailed
)

func (s DoseState) String() string {
	switch s {
	case Untaken:
		return "untaken"
	case Saving:
		return "saving"
	case Taken:
		return "taken"
	case SavingFailed:
		return "saving failed"
	default:
		return fmt.Sprintf("DoseState(%d)", int(s))
	}
}

// DisplayedTaken reports whether the view shows the dose as taken. A dose
// being saved is shown as taken before the server confirms it.
func (s DoseState) DisplayedTaken() bool {
	return s == Saving || s == Taken
}

// TodayItem is one row of today's list.
type TodayItem struct {
	Medication models.Medication
	State      DoseState
}

// Counts summarises today's list.
type Counts struct {
	Taken   int
	Total   int
	Percent int
}

// TodayService tracks today's doses and marks them taken optimistically.
// At most one insert per medication is in flight. State is guarded by mu,
// which is never held across a client call.
//
// Every settle bumps gen and records it in settled, so a Load whose fetch
// began before a dose was confirmed cannot move it back to Untaken.
type TodayService struct {
	client   client.Client
	cache    *cache.Cache
	notifier Notifier
	log      logging.Logger
	clock    dates.Clock

	mu     sync.Mutex
	userID string
	day    dates.Date
	items  []TodayItem
	saving map[string]struct{}

	gen     uint64
	settled map[string]uint64

	wg sync.WaitGroup
}

func NewTodayService(c client.Client, cc *cache.Cache, n Notifier, l logging.Logger, clock dates.Clock) *TodayService {
	return &TodayService{
		client:   c,
		cache:    cc,
		notifier: n,
		log:      l.With("module", "today"),
		clock:    clock,
		saving:   map[string]struct{}{},
		settled:  map[string]uint64{},
	}
}

// Load rebuilds today's list from the medications (newest first) and
// today's dose logs, fetched concurrently through the cache. A dose whose
// insert is still in flight keeps its state.
func (t *TodayService) Load(ctx context.Context, s session.Session) ([]TodayItem, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	day := dates.Today(t.clock)

	t.mu.Lock()
	start := t.gen
	t.mu.Unlock()

	var (
		meds []models.Medication
		logs []models.DoseLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meds, err = cache.Load(gctx, t.cache, cache.MedicationsKey(s.UserID), func(ctx context.Context) ([]models.Medication, error) {
			return t.client.ListMedications(ctx, s)
		})
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = cache.Load(gctx, t.cache, cache.TodayKey(s.UserID, day), func(ctx context.Context) ([]models.DoseLog, error) {
			return t.client.ListDoseLogs(ctx, s, nil, day, day)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load today: %w", err)
	}

	taken := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		taken[l.MedicationID] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	same := t.userID == s.UserID && t.day == day
	prev := make(map[string]DoseState, len(t.items))
	if same {
		for _, it := range t.items {
			prev[it.Medication.ID] = it.State
		}
	}

	items := make([]TodayItem, 0, len(meds))
	for _, m := range meds {
		st := Untaken
		if _, ok := taken[m.ID]; ok {
			st = Taken
		}
		if st != Taken && same {
			_, busy := t.saving[m.ID]
			if busy || t.settled[m.ID] > start {
				if p, ok := prev[m.ID]; ok {
					st = p
				}
			}
		}
		items = append(items, TodayItem{Medication: m, State: st})
	}

	t.userID, t.day, t.items = s.UserID, day, items
	return slices.Clone(items), nil
}

// MarkTaken marks a dose taken for the loaded day. The item switches to
// Saving before MarkTaken returns and the insert runs in the background.
// The returned channel yields the failure, if any, and is then closed;
// on success it is closed without a value.
//
// A second call while the insert is in flight returns ErrAlreadySaving
// and issues no request. A dose already taken returns ErrAlreadyTaken.
func (t *TodayService) MarkTaken(ctx context.Context, s session.Session, medicationID string) (<-chan error, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	if _, busy := t.saving[medicationID]; busy {
		t.mu.Unlock()
		return nil, common.ErrAlreadySaving
	}
	i := t.indexOf(medicationID)
	if i < 0 || t.userID != s.UserID {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: medication %s is not in today's list", common.ErrNotFound, medicationID)
	}
	if t.items[i].State != Untaken {
		t.mu.Unlock()
		return nil, ErrAlreadyTaken
	}

	t.items[i].State = Saving
	t.saving[medicationID] = struct{}{}
	day := t.day
	t.wg.Add(1)
	t.mu.Unlock()

	done := make(chan error, 1)
	go t.persist(ctx, s, medicationID, day, done)
	return done, nil
}

func (t *TodayService) persist(ctx context.Context, s session.Session, medicationID string, day dates.Date, done chan<- error) {
	defer t.wg.Done()
	defer close(done)

	err := t.client.InsertDoseLog(ctx, s, medicationID, day)
	if errors.Is(err, common.ErrDuplicate) {
		err = nil
	}
	t.invalidate(s.UserID, day)

	if err == nil {
		t.settle(medicationID, day, Taken, true)
		t.notifier.Success(ctx, ActionMarkTaken)
		return
	}

	err = fmt.Errorf("mark taken: %w", err)
	t.log.Warn(ctx, "mark taken failed", "medication_id", medicationID, "date", day, "error", err)
	t.settle(medicationID, day, SavingFailed, false)
	t.notifier.Failure(ctx, ActionMarkTaken, err)
	t.settle(medicationID, day, Untaken, true)
	done <- err
}

// settle moves the dose to st if the list still shows day. release clears
// the saving marker.
func (t *TodayService) settle(medicationID string, day dates.Date, st DoseState, release bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if release {
		delete(t.saving, medicationID)
	}
	t.gen++
	t.settled[medicationID] = t.gen
	if t.day != day {
		return
	}
	if i := t.indexOf(medicationID); i >= 0 {
		t.items[i].State = st
	}
}

// invalidate drops the views that depend on day's logs: today's list, the
// month containing day and every adherence window.
func (t *TodayService) invalidate(userID string, day dates.Date) {
	t.cache.Invalidate(
		cache.TodayKey(userID, day),
		cache.MonthKey(userID, day.Year(), int(day.Month())),
	)
	t.cache.InvalidateKind(cache.KindWindow, userID)
}

func (t *TodayService) indexOf(medicationID string) int {
	return slices.IndexFunc(t.items, func(it TodayItem) bool { return it.Medication.ID == medicationID })
}

// Items returns a snapshot of today's list.
func (t *TodayService) Items() []TodayItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.items)
}

// Day is the date the list was loaded for.
func (t *TodayService) Day() dates.Date {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.day
}

// Counts is recomputed from the current states on every call.
func (t *TodayService) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := Counts{Total: len(t.items)}
	for _, it := range t.items {
		if it.State.DisplayedTaken() {
			c.Taken++
		}
	}
	c.Percent = adherence.Rate(c.Taken, c.Total)
	return c
}

// Saving returns the ids with an insert in flight, sorted.
func (t *TodayService) Saving() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.saving))
	for id := range t.saving {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (t *TodayService) IsSaving(medicationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.saving[medicationID]
	return ok
}

// Wait blocks until every in-flight insert has settled.
func (t *TodayService) Wait() {
	t.wg.Wait()
}
