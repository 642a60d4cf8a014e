package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/handlers"
	"github.com/nicolasgrk/gestion-budget-ia/internal/llm"
	"github.com/nicolasgrk/gestion-budget-ia/internal/middleware"
	"github.com/nicolasgrk/gestion-budget-ia/internal/repositories/database/pgsql"
	"github.com/nicolasgrk/gestion-budget-ia/pkg/config"
	"github.com/nicolasgrk/gestion-budget-ia/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.AnalysisRateLimit)
	if err != nil {
		logger.Error("Invalid analysis rate limit", slog.String("limit", cfg.AnalysisRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	analysisLimiter := limiter.New(memory.NewStore(), rate)

	container := buildServices(cfg, dbPool)
	handlers.RegisterRoutes(r, cfg, container, analysisLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories, the model client and the service layer.
func buildServices(cfg *config.Config, dbPool *pgxpool.Pool) *portssvc.ServiceContainer {
	transactionRepo := pgsql.NewTransactionRepository(dbPool)
	categoryRepo := pgsql.NewCategoryRepository(dbPool)
	analysisRepo := pgsql.NewAnalysisRepository(dbPool)

	model := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	categorization := services.NewCategorizationService(transactionRepo, categoryRepo, model)

	return &portssvc.ServiceContainer{
		Statistics:     services.NewStatisticsService(transactionRepo),
		Transaction:    services.NewTransactionService(transactionRepo, categorization),
		Category:       services.NewCategoryService(categoryRepo),
		Categorization: categorization,
		Spending:       services.NewSpendingAnalysisService(transactionRepo, analysisRepo, model),
		Recurring: services.NewRecurringService(transactionRepo, analysisRepo, model, services.RecurringDetectionConfig{
			MinOccurrences:      cfg.RecurringMinOccurrences,
			MaxDistinctAmounts:  cfg.RecurringMaxDistinctAmounts,
			ConfidenceThreshold: cfg.RecurringConfidenceThreshold,
		}),
		Forecast: services.NewForecastService(transactionRepo, analysisRepo, model),
		Chat:     services.NewChatService(transactionRepo, model, cfg.ChatMaxTokens),
	}
}

// runMigrations applies all pending migrations from the migrations directory.
// It opens a separate database/sql connection since migrate does not work on
// a pgx pool directly.
func runMigrations(logger *slog.Logger, databaseURL string) error {
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
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
