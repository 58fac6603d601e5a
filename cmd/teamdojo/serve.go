package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/teamdojo/dojo/application"
	"github.com/dfryer1193/teamdojo/dojo/persistence"
	"github.com/dfryer1193/teamdojo/internal/config"
	"github.com/dfryer1193/teamdojo/internal/middleware"
	"github.com/dfryer1193/teamdojo/internal/rest"
	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a.cfg)
		},
	}

	cmd.Flags().Int("port", 0, "HTTP port")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

// serve runs the HTTP server until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Database.Path})
	if err := database.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	router := newRouter(cfg, database)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("database", cfg.Database.Path).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func newRouter(cfg *config.Config, database *sqlite.SQLiteDB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	var metricsHandler gin.HandlerFunc
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(database.DB(), "teamdojo"),
		)
		router.Use(middleware.NewMetrics(reg).Middleware())
		metricsHandler = gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	images := application.NewImageService(persistence.NewImageRepository(database.DB()))
	trainings := application.NewTrainingService(persistence.NewTrainingRepository(database.DB()))

	rest.NewApi(router,
		rest.NewImageHandler(images, cfg.Pagination.MaxSize),
		rest.NewTrainingHandler(trainings, cfg.Pagination.MaxSize),
	)
	rest.NewManagementApi(router, database.DB(), metricsHandler)

	return router
}
