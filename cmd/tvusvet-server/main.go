package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tvusvet/tvusvet/internal/config"
	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/internal/domain/reference"
	"github.com/tvusvet/tvusvet/internal/domain/settings"
	"github.com/tvusvet/tvusvet/internal/domain/template"
	"github.com/tvusvet/tvusvet/internal/platform/backup"
	"github.com/tvusvet/tvusvet/internal/platform/db"
	"github.com/tvusvet/tvusvet/internal/platform/middleware"
	"github.com/tvusvet/tvusvet/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tvusvet-server",
		Short: "Veterinary exam reporting API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(backupCmd())

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
			if dir == "" {
				dir = cfg.MigrationsDir
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
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
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
			if dir == "" {
				dir = cfg.MigrationsDir
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
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the full dataset",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			passphrase, _ := cmd.Flags().GetString("passphrase")

			svc, cleanup, err := backupService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			var data []byte
			if passphrase != "" {
				data, err = svc.ExportEncrypted(ctx, passphrase)
			} else {
				data, err = svc.ExportJSON(ctx)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, data, 0o600); err != nil {
				return err
			}
			fmt.Printf("Backup written to %s (%d bytes).\n", file, len(data))
			return nil
		},
	}
	exportCmd.Flags().String("file", "backup.json", "Output file")
	exportCmd.Flags().String("passphrase", "", "Encrypt the backup with this passphrase")
	cmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Restore from a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			passphrase, _ := cmd.Flags().GetString("passphrase")

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			svc, cleanup, err := backupService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			if passphrase != "" {
				err = svc.ImportEncrypted(ctx, data, passphrase)
			} else {
				err = svc.ImportJSON(ctx, data)
			}
			if err != nil {
				return err
			}
			fmt.Println("Backup imported successfully.")
			return nil
		},
	}
	importCmd.Flags().String("file", "backup.json", "Input file")
	importCmd.Flags().String("passphrase", "", "Decrypt the backup with this passphrase")
	cmd.AddCommand(importCmd)

	return cmd
}

func backupService() (*backup.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	svc := backup.NewService(
		patient.NewRepoPG(pool),
		exam.NewRepoPG(pool),
		template.NewRepoPG(pool),
		reference.NewRepoPG(pool),
		settings.NewRepoPG(pool),
	)
	return svc, pool.Close, nil
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

	// Repositories
	patientRepo := patient.NewRepoPG(pool)
	examRepo := exam.NewRepoPG(pool)
	templateRepo := template.NewRepoPG(pool)
	referenceRepo := reference.NewRepoPG(pool)
	settingsRepo := settings.NewRepoPG(pool)

	// Services
	patientSvc := patient.NewService(patientRepo, examRepo)
	examSvc := exam.NewService(examRepo, patientRepo, templateRepo, referenceRepo, cfg.MaxImageBytes)
	templateSvc := template.NewService(templateRepo)
	referenceSvc := reference.NewService(referenceRepo)
	settingsSvc := settings.NewService(settingsRepo)
	reportSvc := report.NewService(examSvc, settingsRepo)
	backupSvc := backup.NewService(patientRepo, examRepo, templateRepo, referenceRepo, settingsRepo)

	// Seed defaults on first run
	us, echoSections, ecg := exam.SeedSections()
	if err := templateSvc.SeedDefaults(ctx, us, echoSections, ecg); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed templates")
	}
	if err := referenceSvc.SeedDefaults(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed reference values")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(1<<20, cfg.MaxImageBytes*8))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Routes
	apiV1 := e.Group("/api/v1")
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	exam.NewHandler(examSvc).RegisterRoutes(apiV1)
	template.NewHandler(templateSvc).RegisterRoutes(apiV1)
	reference.NewHandler(referenceSvc).RegisterRoutes(apiV1)
	settings.NewHandler(settingsSvc).RegisterRoutes(apiV1)
	report.NewHandler(reportSvc).RegisterRoutes(apiV1)
	backup.NewHandler(backupSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
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
