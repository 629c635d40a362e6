// Package server wires the account server together: storage, services,
// the REST API and the gRPC health endpoint, and runs them until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/config"
	"github.com/dmitrijs2005/accountd/internal/server/httpapi"
	"github.com/dmitrijs2005/accountd/internal/server/metrics"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountd/internal/server/services"

	gs "github.com/dmitrijs2005/accountd/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

// OpenStore opens the configured database and applies migrations.
func OpenStore(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDriver == repomanager.DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, rm, nil
}

// NewApp validates c and builds every component. The returned App owns
// the database handle until Run returns.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	clock := clockx.New()
	issuer, err := auth.NewTokenIssuer(c.TokenConfig(), clock)
	if err != nil {
		return nil, err
	}

	db, rm, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	dir := services.NewDirectory(db, rm, clock, logger)
	authService := services.NewAuthService(dir, auth.NewBcryptHasher(auth.DefaultBcryptCost), issuer, logger)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:     authService,
		Accounts: dir,
		Tokens:   issuer,
		Metrics:  metrics.New(),
		Health:   db,
		Logger:   logger,
	})

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpapi.NewServer(c.EndpointAddrHTTP, router, logger, c.ShutdownTimeout),
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, c.HealthCheckInterval),
	}, nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The returned
// func stops listening.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) func() {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	return func() { signal.Stop(sigs) }
}

// Run serves HTTP and, when an address is configured, gRPC health until
// ctx is cancelled, a signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stop := app.initSignalHandler(ctx, cancelFunc)
	defer stop()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server stopped with error", "server", name, "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s server: %w", name, err)
				}
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.httpServer.Run)
	if app.config.EndpointAddrGRPC != "" {
		start("grpc", app.grpcServer.Run)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")

	return firstErr
}
