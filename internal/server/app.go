// Package server wires the application together: it picks the storage
// backend, runs migrations, builds the services and runs the HTTP and gRPC
// servers until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rcornejom06/authcore/internal/dbx"
	"github.com/rcornejom06/authcore/internal/logging"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"github.com/rcornejom06/authcore/internal/server/config"
	"github.com/rcornejom06/authcore/internal/server/httpapi"
	"github.com/rcornejom06/authcore/internal/server/oauth"
	"github.com/rcornejom06/authcore/internal/server/repositories/repomanager"
	"github.com/rcornejom06/authcore/internal/server/services"

	gs "github.com/rcornejom06/authcore/internal/server/grpc"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	httpServer  *httpapi.HTTPServer
	grpcServer  *gs.GRPCServer
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// NewApp validates c and builds every component. An invalid configuration,
// including a missing signing secret, is returned as an error before
// anything is started.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(out, c.LogLevel)

	db, rm, err := openStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewHasher(c.BcryptCost)
	if err != nil {
		return nil, closeOnError(db, err)
	}
	tokens, err := auth.NewTokenManager([]byte(c.SecretKey), c.TokenTTL, time.Now)
	if err != nil {
		return nil, closeOnError(db, err)
	}

	var dbtx dbx.DBTX
	if db != nil {
		dbtx = db
	}
	us, err := services.NewUserService(dbtx, rm, hasher, tokens)
	if err != nil {
		return nil, closeOnError(db, err)
	}

	var google httpapi.IdentityProvider
	if c.GoogleEnabled() {
		google = oauth.NewGoogleProvider(c.GoogleClientID, c.GoogleClientSecret, c.GoogleCallbackURL)
	} else {
		logger.Info(ctx, "Google sign-in disabled: client credentials not configured")
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: us,
	}
	if c.HTTPAddr != "" {
		app.httpServer = httpapi.NewHTTPServer(c.HTTPAddr, logger, us, google, c.FrontendURL, c.ShutdownTimeout)
	}
	if c.GRPCAddr != "" {
		app.grpcServer = gs.NewGRPCServer(c.GRPCAddr, logger, us)
	}
	return app, nil
}

func openStorage(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	if c.StoreBackend == config.StoreMemory {
		return nil, repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, nil, closeOnError(db, fmt.Errorf("db ping: %w", err))
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, nil, closeOnError(db, err)
	}
	return db, rm, nil
}

func closeOnError(db *sql.DB, err error) error {
	if db == nil {
		return err
	}
	return errors.Join(err, db.Close())
}

// notifyContext is a seam for tests.
var notifyContext = signal.NotifyContext

// Run serves until ctx is cancelled, a signal arrives, or a server fails.
// A failing server stops the other one.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := notifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	if app.httpServer != nil {
		run("http", app.httpServer.Run)
	}
	if app.grpcServer != nil {
		run("grpc", app.grpcServer.Run)
	}
	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}
