package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracking/cmd"
	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/postgres/orderrepo"
	"tracking/internal/adapters/out/postgres/partnerrepo"
	"tracking/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDB(configs)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.EventDTO{},
		&partnerrepo.PartnerDTO{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	auth, err := httpadapter.NewAuthenticator(configs.JWTSecret)
	if err != nil {
		log.Fatalf("failed to configure authentication: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	simulations := app.CreateSimulationManager()
	jobManager := app.CreateJobManager(simulations, staleAfter(configs, logger))
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start background jobs: %v", err)
	}

	server := app.CreateServer(auth, simulations, app.CreateTracker())

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	server.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		if startErr := e.Start(addr); startErr != nil && startErr != http.ErrServerClosed {
			log.Fatalf("web server failed: %v", startErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("web server shutdown failed", "error", err)
	}

	jobManager.StopAll()
	app.TrackingHub().Close()
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:          goDotEnvVariable("HTTP_PORT"),
		DBHost:            goDotEnvVariable("DB_HOST"),
		DBPort:            goDotEnvVariable("DB_PORT"),
		DBUser:            goDotEnvVariable("DB_USER"),
		DBPassword:        goDotEnvVariable("DB_PASSWORD"),
		DBName:            goDotEnvVariable("DB_NAME"),
		DBSslMode:         goDotEnvVariable("DB_SSLMODE"),
		JWTSecret:         goDotEnvVariable("JWT_SECRET"),
		WebhookURL:        goDotEnvVariable("NOTIFY_WEBHOOK_URL"),
		PartnerStaleAfter: goDotEnvVariable("PARTNER_STALE_AFTER"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDB(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)
	return gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
}

func staleAfter(configs cmd.Config, logger *slog.Logger) time.Duration {
	if configs.PartnerStaleAfter == "" {
		return jobs.DefaultStaleAfter
	}

	window, err := time.ParseDuration(configs.PartnerStaleAfter)
	if err != nil {
		logger.Warn("invalid PARTNER_STALE_AFTER, using default",
			"value", configs.PartnerStaleAfter, "error", err)
		return jobs.DefaultStaleAfter
	}
	return window
}
