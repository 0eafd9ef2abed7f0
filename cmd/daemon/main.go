package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/framed/internal/api"
	"github.com/genricoloni/framed/internal/clock"
	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/display"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/fetcher"
	"github.com/genricoloni/framed/internal/processor"
	"github.com/genricoloni/framed/internal/provider"
	"github.com/genricoloni/framed/internal/queue"
	"github.com/genricoloni/framed/internal/rotation"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the complete dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		newConfig,
		newLogger,
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(processor.NewFrameProcessor, fx.As(new(domain.ImageProcessor))),
		provider.NewRegistryFromConfig,
		func(r *provider.Registry) rotation.Catalog { return r },
		fx.Annotate(clock.NewReal, fx.As(new(clock.Clock))),
		queue.NewManagerFromConfig,
		display.NewDirectorySurface,
		func(s *display.DirectorySurface) domain.DisplaySurface { return s },
		func(s *display.DirectorySurface) api.Previewer { return s },
		rotation.NewFromConfig,
		func(d *rotation.Driver) api.Controller { return d },
		api.NewServer,
	),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newConfig loads .env (if any) and the application configuration. It runs
// before the real logger exists, so it reports through a bootstrap logger.
func newConfig() (*config.AppConfig, error) {
	boot, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	defer func() { _ = boot.Sync() }()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		boot.Warn("Failed to load .env file", zap.Error(err))
	}

	return config.NewAppConfig(boot)
}

// newLogger creates the zap logger described by the configuration
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	return zc.Build()
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	registry *provider.Registry,
	driver *rotation.Driver,
	server *api.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n := registry.InitializeAll(ctx)
			logger.Info("Framed daemon started", zap.Int("providers", n))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			_ = logger.Sync()
			return nil
		},
	})
	lc.Append(fx.Hook{
		OnStart: driver.Start,
		OnStop:  driver.Stop,
	})
	lc.Append(fx.Hook{
		OnStart: server.Start,
		OnStop:  server.Stop,
	})
}
