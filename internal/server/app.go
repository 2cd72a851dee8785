// Package server assembles the blogdesk devserver: storage, services, the
// REST API and the gRPC health endpoint, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/dbx"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
	"github.com/dmitrijs2005/blogdesk/internal/server/config"
	"github.com/dmitrijs2005/blogdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/blogdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogdesk/internal/server/services"

	gs "github.com/dmitrijs2005/blogdesk/internal/server/grpc"
)

const (
	shutdownTimeout = 5 * time.Second
	secretBytes     = 32
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   []*http.Server
	health *gs.HealthServer
}

// NewApp opens storage and builds the servers. With a DSN the posts live in
// Postgres and migrations are applied; without one they live in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(secretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "No secret key configured, tokens are signed with a random one and expire on restart")
	}

	var (
		sqlDB *sql.DB
		db    dbx.DBTX
		rm    repomanager.RepositoryManager
	)
	if c.DatabaseDSN != "" {
		var err error
		sqlDB, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("db migrations error: %w", err)
		}
		db = sqlDB
		logger.Info(ctx, "Using postgres storage")
	} else {
		rm = repomanager.NewMemoryRepositoryManager()
		logger.Info(ctx, "Using in-memory storage")
	}

	us := services.NewUserService(db, rm, c)
	ps := services.NewPostService(db, rm)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.NewHandler(us, ps, logger))

	app := &App{config: c, logger: logger, db: sqlDB}

	// the auth listener serves the same routes, so clients with separate
	// auth and post base URLs work against one devserver
	for _, addr := range []string{c.EndpointAddrHTTP, c.EndpointAddrAuth} {
		if addr == "" {
			continue
		}
		app.http = append(app.http, &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger)
	}

	return app, nil
}

func (app *App) runHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...", "address", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. The database is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range app.http {
		g.Go(func() error { return app.runHTTP(ctx, srv) })
	}
	if app.health != nil {
		g.Go(func() error { return app.health.Run(ctx) })
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "err", err)
	}

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "closing database", "err", cerr)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
