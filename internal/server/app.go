// Package server wires the access gateway: it opens the PostgreSQL store,
// runs migrations, builds the token services and serves them over gRPC
// until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/buildinfo"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/config"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/repomanager"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/services"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"

	gs "github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/grpc"
)

// openDB is a seam for tests.
var openDB = repomanager.OpenPostgres

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	issuer    *services.IssuerService
	validator *services.ValidatorService
	recorder  *services.ScanRecorder
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	codec, err := qrtoken.NewCodec(c.QRSecret)
	if err != nil {
		return nil, fmt.Errorf("qr secret: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return newApp(c, logger, db, rm, codec, timex.Real()), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, codec *qrtoken.Codec, clock timex.Clock) *App {
	var snapshots services.SnapshotStore
	if c.S3Bucket != "" {
		snapshots = services.NewS3SnapshotStore(c)
	}

	issuer := qrtoken.NewIssuer(codec, clock, c.QRValidity, c.RefreshMargin)
	recorder := services.NewScanRecorder(db, rm, clock)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		issuer:   services.NewIssuerService(db, rm, issuer, snapshots, c.QRImageScale, clock, logger),
		recorder: recorder,
		validator: services.NewValidatorService(db, rm, codec, recorder, clock, logger, services.ValidatorOptions{
			DedupeWindow:         c.DedupeWindow,
			LookupTimeout:        c.LookupTimeout,
			EnforceLatestVersion: c.EnforceLatestVersion,
		}),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.issuer, app.validator, app.recorder,
		app.config.SecretKey, buildinfo.Version())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"qr_validity", app.config.QRValidity.String(),
		"enforce_latest_version", app.config.EnforceLatestVersion,
		"snapshots", app.config.S3Bucket != "")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
