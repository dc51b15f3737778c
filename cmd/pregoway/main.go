package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pregoway/pregoway/internal/api"
	"github.com/pregoway/pregoway/internal/cli"
	"github.com/pregoway/pregoway/internal/config"
	"github.com/pregoway/pregoway/internal/db"
	"github.com/pregoway/pregoway/internal/i18n"
	"github.com/pregoway/pregoway/internal/services"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:           "pregoway",
		Short:         "Pregnancy companion server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(logger)
		},
	}

	var resetDBPath string
	resetCmd := &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Issue a temporary password for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunResetPasswordCommand(resetDBPath, args[0])
		},
	}
	resetCmd.Flags().StringVar(&resetDBPath, "db", filepath.Join("data", "pregoway.db"), "path to the SQLite database")

	var verifyDBPath string
	verifyCmd := &cobra.Command{
		Use:   "verify-doctor <email>",
		Short: "Mark a doctor account as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunVerifyDoctorCommand(verifyDBPath, args[0])
		},
	}
	verifyCmd.Flags().StringVar(&verifyDBPath, "db", filepath.Join("data", "pregoway.db"), "path to the SQLite database")

	rootCmd.AddCommand(serveCmd, resetCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func runServe(logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, filepath.Join("internal", "i18n", "locales"))
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(database, cfg, i18nManager, logger)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:               "Pregoway",
		DisableStartupMessage: true,
		BodyLimit:             services.MaxDocumentBytes + 1<<20,
	})

	app.Use(recover.New())
	app.Use(api.RequestLogger(logger))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	repos := db.NewRepositories(database)
	var notifier services.Notifier = services.NewLogNotifier(logger)
	if cfg.ReminderWebhookURL != "" {
		notifier = services.NewWebhookNotifier(cfg.ReminderWebhookURL)
	}
	reminders := services.NewReminderService(
		repos.Users,
		repos.Checkins,
		repos.Timeline,
		notifier,
		i18nManager,
		location,
		cfg.ReminderHour,
		logger,
	)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	reminders.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", location.String()).
		Msg("pregoway listening")
	return app.Listen(":" + cfg.Port)
}
