// Package server initializes and runs the DevConnector API server.
// It configures the store and runs migrations, wires the services,
// handles graceful shutdown and starts the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/avatars"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/server/rest"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	userService    *services.UserService
	profileService *services.ProfileService
	postService    *services.PostService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	rm, err := repomanager.New(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(rm, c)
	if c.AvatarUploadsEnabled() {
		store, err := avatars.NewS3Storage(ctx, avatars.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("avatar store init error: %w", err)
		}
		us.SetAvatarStore(store)
	}

	return &App{
		config:         c,
		logger:         logger,
		repomanager:    rm,
		userService:    us,
		profileService: services.NewProfileService(rm),
		postService:    services.NewPostService(rm),
	}, nil
}

// errShutdownSignal ends the run group when the process is asked to stop.
var errShutdownSignal = errors.New("shutdown signal")

// notifySignals is a test seam for signal.Notify.
var notifySignals = signal.Notify

// watchSignals returns errShutdownSignal on SIGINT, SIGTERM or SIGQUIT, which
// cancels the rest of the run group. It returns nil once ctx is done.
func (app *App) watchSignals(ctx context.Context) error {
	sigs := make(chan os.Signal, 1)
	notifySignals(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		app.logger.Info(ctx, "Received signal", "signal", sig.String())
		return fmt.Errorf("%w: %s", errShutdownSignal, sig)
	case <-ctx.Done():
		return nil
	}
}

// Run serves until a termination signal arrives, ctx is cancelled or the
// server fails.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.profileService, app.postService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx)
	})
	g.Go(func() error {
		return app.watchSignals(gctx)
	})

	err := g.Wait()
	if errors.Is(err, errShutdownSignal) {
		err = nil
	}
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
	}

	if cerr := app.repomanager.Close(); cerr != nil {
		app.logger.Error(ctx, "close store", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
