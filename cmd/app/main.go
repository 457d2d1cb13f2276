package main

import (
	"fmt"
	"os"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB, err := gorm.Open(postgres.Open(connectionString(configs)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer app.Close()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:          goDotEnvVariable("HTTP_PORT"),
		DBHost:            goDotEnvVariable("DB_HOST"),
		DBPort:            goDotEnvVariable("DB_PORT"),
		DBUser:            goDotEnvVariable("DB_USER"),
		DBPassword:        goDotEnvVariable("DB_PASSWORD"),
		DBName:            goDotEnvVariable("DB_NAME"),
		DBSslMode:         goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:         goDotEnvVariable("KAFKA_HOST"),
		KafkaEventsTopic:  goDotEnvVariable("KAFKA_EVENTS_TOPIC"),
		RedisHost:         goDotEnvVariable("REDIS_HOST"),
		CatalogCacheTTL:   goDotEnvVariable("CATALOG_CACHE_TTL"),
		ReminderSchedule:  goDotEnvVariable("REMINDER_SCHEDULE"),
		ReminderThreshold: goDotEnvVariable("REMINDER_THRESHOLD"),
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

func connectionString(config cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword,
		config.DBName, config.DBSslMode)
}

func startWebServer(app cmd.CompositionRoot, port string) {
	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAcceptOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateReadyForPickupCommandHandler(),
		app.CreateMarkReadyCommandHandler(),
		app.CreateMarkProductUnavailableCommandHandler(),
		app.CreateMarkPickedUpCommandHandler(),
		app.CreateGetOrderFulfillmentQueryHandler(),
		app.CreateGetSupplierOrdersQueryHandler(),
		app.CreateGetOrderEventsQueryHandler(),
		app.Hub(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
