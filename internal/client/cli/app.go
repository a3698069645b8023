package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/client/cache"
	"github.com/dmitrijs2005/medkeeper/internal/client/client"
	"github.com/dmitrijs2005/medkeeper/internal/client/config"
	"github.com/dmitrijs2005/medkeeper/internal/client/services"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/dmitrijs2005/medkeeper/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	clock  dates.Clock

	auth     services.AuthService
	meds     *services.MedicationService
	today    *services.TodayService
	calendar *services.CalendarService
	progress *services.ProgressService
	profile  *services.ProfileService

	session session.Session

	// fetchReport downloads an exported report.
	fetchReport func(ctx context.Context, link *client.ReportLink) ([]byte, error)

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and connects to the configured backend.
// The address "memory" selects the in-process backend.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	var apiClient client.Client
	if c.ServerEndpointAddr == config.MemoryEndpoint {
		apiClient = client.NewMemoryClient()
	} else {
		apiClient, err = client.NewGRPCClient(c.ServerEndpointAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return newApp(c, apiClient, db, l, time.Now, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, apiClient client.Client, db *sql.DB, l logging.Logger, clock dates.Clock, in io.Reader, out io.Writer) *App {
	cc := cache.New()
	n := newPrintNotifier(out, l)

	fetch := func(ctx context.Context, link *client.ReportLink) ([]byte, error) {
		return netx.DownloadPresignedURL(ctx, link.URL)
	}
	if mem, ok := apiClient.(*client.MemoryClient); ok {
		fetch = func(_ context.Context, link *client.ReportLink) ([]byte, error) {
			b, ok := mem.Report(link.Key)
			if !ok {
				return nil, fmt.Errorf("%w: report %s", common.ErrNotFound, link.Key)
			}
			return b, nil
		}
	}

	return &App{
		fetchReport: fetch,
		config:      c,
		log:         l.With("module", "cli"),
		db:          db,
		clock:       clock,
		auth:        services.NewAuthService(apiClient, db, n),
		meds:        services.NewMedicationService(apiClient, cc, n, l),
		today:       services.NewTodayService(apiClient, cc, n, l, clock),
		calendar:    services.NewCalendarService(apiClient, cc, clock),
		progress:    services.NewProgressService(apiClient, cc, n, clock, c.AdherenceWindowDays),
		profile:     services.NewProfileService(apiClient, cc, n),
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// Run restores the saved session, starts the connectivity watcher and
// blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		a.today.Wait()
		cancel()
		if err := a.auth.Close(ctx); err != nil {
			a.log.Warn(ctx, "closing client", "error", err)
		}
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "closing local store", "error", err)
		}
	}()

	a.restore(ctx)
	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) restore(ctx context.Context) {
	s, err := a.auth.Restore(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			a.log.Warn(ctx, "restoring session", "error", err)
		}
		return
	}
	a.session = s
}

func (a *App) isLoggedIn() bool {
	return a.session.Valid() == nil
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
