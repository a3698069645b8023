// Package server wires the MedKeeper backend together: PostgreSQL with
// goose migrations, the S3 report store and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/dmitrijs2005/medkeeper/internal/server/config"
	gs "github.com/dmitrijs2005/medkeeper/internal/server/grpc"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/medkeeper/internal/server/services"
	"github.com/dmitrijs2005/medkeeper/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

// seams for tests
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newRepoManager = repomanager.NewPostgresRepositoryManager

	newReportStore = func(ctx context.Context, cfg *config.Config) (storage.ReportStore, error) {
		return storage.NewS3Store(ctx, cfg)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

// NewApp connects to the database, applies migrations and builds the
// services. The returned App owns the database handle.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(os.Stdout, slog.LevelInfo)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newReportStore(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("report store init error: %w", err)
	}

	svc := gs.Services{
		Users:       services.NewUserService(db, rm, c),
		Medications: services.NewMedicationService(db, rm),
		DoseLogs:    services.NewDoseLogService(db, rm),
		Profiles:    services.NewProfileService(db, rm),
		Reports:     services.NewReportService(db, rm, store, c),
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey),
	}, nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	app.logger.Info(context.Background(), "App stopped")
	return err
}
