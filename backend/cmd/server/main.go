package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"contact-tracer/backend/internal/graph"
	"contact-tracer/backend/internal/web"
	"contact-tracer/backend/pkg/config"
	"contact-tracer/backend/pkg/logger"
)

// connectTimeout bounds the initial connectivity check against Neo4j
const connectTimeout = 15 * time.Second

func main() {
	fx.New(appOptions()).Run()
}

func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Load,
			newLogger,
			newDriver,
			fx.Annotate(newRepository, fx.As(fx.Self()), fx.As(new(web.Store))),
			web.NewHandler,
			newRouter,
			newHTTPServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(registerHooks),
	)
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	lc.Append(fx.StopHook(logger.Sync))
	return logger.Get(), nil
}

func newDriver(cfg *config.Config, log *zap.Logger) (neo4j.DriverWithContext, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	driver, err := graph.NewDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to Neo4j", zap.String("uri", cfg.Neo4jURI), zap.String("database", cfg.Neo4jDatabase))
	return driver, nil
}

func newRepository(driver neo4j.DriverWithContext, cfg *config.Config, log *zap.Logger) *graph.Repository {
	return graph.NewRepository(driver,
		graph.WithDatabase(cfg.Neo4jDatabase),
		graph.WithContactWindow(cfg.ContactWindowDays),
		graph.WithLogger(log),
	)
}

func newRouter(cfg *config.Config, h *web.Handler) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return web.NewRouter(h)
}

func newHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// registerHooks ties the schema setup, the HTTP server and the driver to the app lifecycle
func registerHooks(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, log *zap.Logger, repo *graph.Repository, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Failed to start server", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			log.Info("Server started",
				zap.String("port", cfg.Port),
				zap.Int("contact_window_days", repo.ContactWindowDays()),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Server forced to shutdown", zap.Error(err))
			}
			if err := repo.Close(shutdownCtx); err != nil {
				log.Error("Failed to close Neo4j driver", zap.Error(err))
				return err
			}

			log.Info("Server exited")
			return nil
		},
	})
}
