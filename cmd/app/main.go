package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"fulfillment/cmd"
	fulfillmenthttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/driverpool"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres/assignmentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	// Preflight the connection before handing it to GORM
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}
	_ = sqlDB.Close()

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect database", "error", err)
		os.Exit(1)
	}

	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.SubOrderDTO{},
		&orderrepo.ItemDTO{},
		&assignmentrepo.AssignmentDTO{},
	); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	publisher, err := kafka.NewTransitionPublisher(configs.KafkaBrokers, configs.KafkaTransitionTopic)
	if err != nil {
		logger.Error("Failed to create Kafka publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	candidatePool, err := driverpool.NewRosterPoolFromStrings(splitRoster(configs.DriverRoster))
	if err != nil {
		logger.Error("Invalid driver roster", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, candidatePool, logger)

	dispatchHandler, err := app.CreateDispatchOffersCommandHandler()
	if err != nil {
		logger.Error("Failed to create offer dispatcher", "error", err)
		os.Exit(1)
	}

	jobManager := jobs.NewJobManager(dispatchHandler, logger)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:             goDotEnvVariable("HTTP_PORT"),
		DBHost:               goDotEnvVariable("DB_HOST"),
		DBPort:               goDotEnvVariable("DB_PORT"),
		DBUser:               goDotEnvVariable("DB_USER"),
		DBPassword:           goDotEnvVariable("DB_PASSWORD"),
		DBName:               goDotEnvVariable("DB_NAME"),
		DBSslMode:            goDotEnvVariable("DB_SSLMODE"),
		KafkaBrokers:         goDotEnvVariable("KAFKA_BROKERS"),
		KafkaTransitionTopic: goDotEnvVariable("KAFKA_TRANSITION_TOPIC"),
		OfferWindowSeconds:   goDotEnvIntVariable("OFFER_WINDOW_SECONDS", 30),
		OfferMaxAttempts:     goDotEnvIntVariable("OFFER_MAX_ATTEMPTS", 5),
		OfferAnyDriver:       goDotEnvBoolVariable("OFFER_ANY_DRIVER"),
		DriverRoster:         goDotEnvVariable("DRIVER_ROSTER"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func goDotEnvIntVariable(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %s", key, raw)
	}
	return value
}

func goDotEnvBoolVariable(key string) bool {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("Invalid boolean for %s: %s", key, raw)
	}
	return value
}

func splitRoster(roster string) []string {
	if roster == "" {
		return nil
	}
	parts := strings.Split(roster, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := fulfillmenthttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAcceptOfferCommandHandler(),
		app.CreateRejectOfferCommandHandler(),
		app.CreateStartPreparingCommandHandler(),
		app.CreateFinishPreparingCommandHandler(),
		app.CreateApproveSubOrderCommandHandler(),
		app.CreateRejectSubOrderCommandHandler(),
		app.CreateRecordDeliveryProgressCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetUndeliveredOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
