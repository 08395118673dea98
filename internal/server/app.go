// Package server assembles the healthkeeper server: it validates the
// configuration, opens the user store, wires the account service into the
// HTTP API and runs it until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/dmitrijs2005/healthkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/healthkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	router      *gin.Engine
}

// NewApp validates c, connects the store and runs migrations.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "Using the default signing secret, set JWT_SECRET outside development")
	}

	rm, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return newApp(c, logger, rm), nil
}

func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database configured, users are kept in memory")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	rm, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	return rm, nil
}

func newApp(c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) *App {
	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	us := services.NewUserService(rm, auth.NewBcryptHasher(), tokens)
	m := metrics.New()
	h := httpapi.NewHandler(us, m, logger)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		router:      httpapi.NewRouter(h, tokens, m, logger),
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

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.router, app.logger)
	runErr := s.Run(ctx)

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
