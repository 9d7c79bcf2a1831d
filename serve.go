package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/windham/commodity-api/pkg/audit"
	"github.com/windham/commodity-api/pkg/auth"
	"github.com/windham/commodity-api/pkg/config"
	"github.com/windham/commodity-api/pkg/database"
	"github.com/windham/commodity-api/pkg/handlers"
	"github.com/windham/commodity-api/pkg/logging"
	"github.com/windham/commodity-api/pkg/middleware"
	"github.com/windham/commodity-api/pkg/models"
	"github.com/windham/commodity-api/pkg/repositories"
	"github.com/windham/commodity-api/pkg/retry"
	"github.com/windham/commodity-api/pkg/services"
)

func newServeCmd() *cobra.Command {
	var migrateOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runServer(cmd.Context(), cfg, logger, migrateOnStart)
		},
	}

	cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	return cmd
}

// runServer serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests for up to cfg.ShutdownTimeout.
func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrateOnStart bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Addr()),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	db, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		if err := db.MigratePool(cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	handler, err := newServer(cfg, db, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting commodity-api", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// connectDatabase opens the pool, retrying transient failures while the
// database comes up.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	dbCfg := &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MinConnections:  cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}

	attempt := 0
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		attempt++
		db, err := database.NewConnection(ctx, dbCfg)
		if err != nil {
			logger.Warn("Database connection failed",
				zap.Int("attempt", attempt),
				zap.String("error", logging.SanitizeError(err)))
		}
		return db, err
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %s", logging.SanitizeError(err))
	}
	return db, nil
}

// newServer wires repositories, services and handlers into the HTTP handler tree.
func newServer(cfg *config.Config, db *database.DB, logger *zap.Logger) (http.Handler, error) {
	schemas, err := handlers.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	tokenValidator, err := auth.NewJWTValidator(&auth.ValidatorConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		SecretKey:          cfg.Auth.SecretKey,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		return nil, fmt.Errorf("auth validator: %w", err)
	}
	auditor := audit.NewSecurityAuditor(logger)
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(tokenValidator, logger), logger).
		WithRecorder(auditor)

	// Scope runs inside RequireAdmin, so audited changes carry the caller's claims.
	requestScope := database.WithRequestScope(db, logger)
	scope := handlers.ScopeMiddleware(func(next http.HandlerFunc) http.HandlerFunc {
		return auditor.AuditChanges(requestScope(next))
	})

	repos := services.CommodityRepositories{
		Commodities: repositories.NewCommodityRepository(),
		Ethylene:    repositories.NewEthyleneRepository(),
		Respiration: repositories.NewRespirationRepository(),
		ShelfLife:   repositories.NewShelfLifeRepository(),
		Temperature: repositories.NewTemperatureRepository(),
		References:  repositories.NewReferenceRepository(),
		Studies:     repositories.NewStudyRepository(),
		StudyLinks:  repositories.NewStudyCommodityRepository(),
	}

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)

	handlers.NewCommodityHandler(services.NewCommodityService(repos, logger), schemas, logger).
		RegisterRoutes(mux, authMiddleware, scope)

	handlers.NewCommodityRecordHandler(handlers.EthyleneRoute,
		services.NewCommodityRecordService[models.EthyleneSensitivity]("ethylene", repos.Ethylene, logger),
		schemas, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewCommodityRecordHandler(handlers.RespirationRoute,
		services.NewCommodityRecordService[models.RespirationRate]("respiration", repos.Respiration, logger),
		schemas, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewCommodityRecordHandler(handlers.ShelfLifeRoute,
		services.NewCommodityRecordService[models.ShelfLife]("shelf-life", repos.ShelfLife, logger),
		schemas, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewCommodityRecordHandler(handlers.TemperatureRoute,
		services.NewCommodityRecordService[models.TemperatureRecommendation]("temperature", repos.Temperature, logger),
		schemas, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewCommodityRecordHandler(handlers.ReferenceRoute,
		services.NewCommodityRecordService[models.Reference]("reference", repos.References, logger),
		schemas, logger).RegisterRoutes(mux, authMiddleware, scope)

	handlers.NewStudyHandler(services.NewStudyService(repos.Studies, repos.StudyLinks, logger), schemas, logger).
		RegisterRoutes(mux, authMiddleware, scope)

	metrics := middleware.NewMetrics("commodity_api")
	mux.Handle("GET /metrics", metrics.Handler())

	return middleware.RequestLogger(logger)(metrics.Middleware(mux)), nil
}
