package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mindcover/mindcover/internal/config"
	"github.com/mindcover/mindcover/internal/domain/coverage"
	"github.com/mindcover/mindcover/internal/domain/insurer"
	"github.com/mindcover/mindcover/internal/domain/intake"
	"github.com/mindcover/mindcover/internal/domain/patient"
	"github.com/mindcover/mindcover/internal/domain/risk"
	"github.com/mindcover/mindcover/internal/platform/auth"
	"github.com/mindcover/mindcover/internal/platform/db"
	"github.com/mindcover/mindcover/internal/platform/middleware"
	"github.com/mindcover/mindcover/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindcover-server",
		Short: "Mental health coverage API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// public routes skip the bearer-token middleware
func authSkipper(c echo.Context) bool {
	if c.Request().Method == http.MethodPost {
		switch c.Path() {
		case "/api/v1/patients/signup", "/api/v1/patients/login",
			"/api/v1/insurers/signup", "/api/v1/insurers/login":
			return true
		}
	}
	return strings.HasPrefix(c.Path(), "/health")
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware([]byte(cfg.AuthSecret), authSkipper))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	// Shared platform services
	tokens := auth.NewTokenIssuer([]byte(cfg.AuthSecret), time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	notifier := notification.NewNotifier(
		notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}),
		notification.NewTemplateEngine(),
		logger,
	)
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	registerDomains(apiV1, pool, cfg, tokens, notifier, runTx, logger)

	// Start server
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func registerDomains(
	apiV1 *echo.Group,
	pool *pgxpool.Pool,
	cfg *config.Config,
	tokens *auth.TokenIssuer,
	notifier *notification.Notifier,
	runTx coverage.TxRunner,
	logger zerolog.Logger,
) {
	// Insurer domain
	insurerRepo := insurer.NewRepoPG(pool)
	insurerSvc := insurer.NewService(insurerRepo, tokens)
	insurerHandler := insurer.NewHandler(insurerSvc)
	insurerHandler.RegisterRoutes(apiV1)

	// Patient domain
	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo, insurerRepo, tokens)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(apiV1)

	// Coverage domain — applications, decisions, appointments
	appRepo := coverage.NewApplicationRepoPG(pool)
	stateRepo := coverage.NewPatientStateRepoPG(pool)
	directory := coverage.NewInsurerDirectoryPG(pool)
	coverageSvc := coverage.NewService(appRepo, stateRepo, directory, notifier, runTx, logger)
	coverageHandler := coverage.NewHandler(coverageSvc)
	coverageHandler.RegisterRoutes(apiV1)

	// Intake domain — clinical document analysis
	classifier := intake.NewOllamaClassifier(
		cfg.OllamaURL, cfg.OllamaModel,
		time.Duration(cfg.ClassifierTimeout)*time.Second, logger,
	)
	intakeSvc := intake.NewService(intake.NewExtractor(), classifier, coverageSvc, logger)
	intakeHandler := intake.NewHandler(intakeSvc)
	intakeHandler.RegisterRoutes(apiV1)

	// Risk domain — self-assessment risk prediction
	estimator := risk.NewEstimator(risk.NewThresholdModel(), coverageSvc, logger)
	riskHandler := risk.NewHandler(estimator)
	riskHandler.RegisterRoutes(apiV1)
}
