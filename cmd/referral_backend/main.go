package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	"github.com/nexalink/referral_network_app/internal/core/services"
	"github.com/nexalink/referral_network_app/internal/handlers"
	"github.com/nexalink/referral_network_app/internal/middleware"
	"github.com/nexalink/referral_network_app/internal/platform/config"
	"github.com/nexalink/referral_network_app/internal/repositories/database/pgsql"
	"github.com/nexalink/referral_network_app/internal/repositories/memory"
	"github.com/nexalink/referral_network_app/internal/utils"
	"github.com/nexalink/referral_network_app/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositoryProvider(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	clock := clockwork.NewRealClock()

	if err := seedRootAdmin(context.Background(), cfg, repos, clock, logger); err != nil {
		logger.Error("Failed to seed root admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, clock)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositoryProvider selects the store: PostgreSQL when PGSQL_URL is
// set (migrations applied first), the in-memory snapshot store otherwise.
func buildRepositoryProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("PGSQL_URL not set, using in-memory store", slog.String("snapshot_path", cfg.SnapshotPath))
		repos, err := memory.NewRepositoryProvider(cfg.SnapshotPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return repos, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// seedRootAdmin creates the first member of the network as an active admin
// root when the store is empty and a root admin password is configured.
func seedRootAdmin(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, clock clockwork.Clock, logger *slog.Logger) error {
	if cfg.RootAdminPassword == "" {
		return nil
	}

	existing, err := repos.MemberRepo.ListMembers(ctx, 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.RootAdminPassword)
	if err != nil {
		return err
	}

	now := clock.Now().UTC()
	memberID := uuid.NewString()
	root := domain.Member{
		MemberID:         memberID,
		Username:         cfg.RootAdminUsername,
		Email:            cfg.RootAdminEmail,
		PasswordHash:     hash,
		Directs:          []string{},
		Status:           domain.Active,
		ActivationWallet: decimal.Zero,
		MatchingWallet:   decimal.Zero,
		TotalIncome:      decimal.Zero,
		IsAdmin:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     memberID,
			LastUpdatedAt: now,
			LastUpdatedBy: memberID,
		},
	}

	err = repos.MemberRepo.WithTx(ctx, func(tx portsrepo.MemberRepositoryFacade) error {
		return tx.SaveMember(ctx, root)
	})
	if err != nil {
		return err
	}

	logger.Info("Seeded root admin member", slog.String("member_id", memberID), slog.String("username", root.Username))
	return nil
}
