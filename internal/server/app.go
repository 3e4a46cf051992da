// Package server assembles the DataVault server: it opens and migrates the
// database, builds the services, and runs the HTTP API and the gRPC health
// endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/datavault/internal/cryptox"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/config"
	"github.com/dmitrijs2005/datavault/internal/server/httpapi"
	"github.com/dmitrijs2005/datavault/internal/server/objectstore"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datavault/internal/server/services"

	gs "github.com/dmitrijs2005/datavault/internal/server/grpc"
)

const (
	dbConnectTimeout = 30 * time.Second
	dbProbeInterval  = 10 * time.Second
)

var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newObjectStore = func(ctx context.Context, c *config.Config) (services.ObjectStore, error) {
		return objectstore.NewS3Store(ctx, c)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	users      *services.UserService
	categories *services.CategoryService
	records    *services.RecordService
	transfer   *services.TransferService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, c.DatabaseDSN, dbConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	sealer, err := cryptox.NewAESSealerFromPassphrase([]byte(c.EncryptionKey), []byte(c.EncryptionSalt))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("encryption init error: %w", err)
	}

	var store services.ObjectStore
	if c.SnapshotsEnabled() {
		if store, err = newObjectStore(ctx, c); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
	} else {
		logger.Info(ctx, "export snapshots disabled: no S3 bucket configured")
	}

	records := services.NewRecordService(db, rm, sealer, c.DefaultPerPage, logger)
	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		users:      services.NewUserService(db, rm, c, logger),
		categories: services.NewCategoryService(db, rm, logger),
		records:    records,
		transfer:   services.NewTransferService(records, store, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) deps() *httpapi.Deps {
	return &httpapi.Deps{
		Auth:       app.users,
		Categories: app.categories,
		Records:    app.records,
		Transfer:   app.transfer,
		DB:         app.db,
		Metrics:    httpapi.NewMetrics(),
		Logger:     app.logger,
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(*app.deps()), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, dbProbeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or either server fails,
// then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
