package cmd

import (
	"log/slog"
	"os"
	"time"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/adapters/out/ws"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/locks"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    ports.CatalogReader
	locker     *locks.KeyedMutex
	hub        *ws.Hub
	publisher  *kafka.Publisher
	logger     *slog.Logger
	config     Config
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var catalog ports.CatalogReader = catalogrepo.NewGormCatalogReader(gormDB)
	if config.RedisHost != "" {
		ttl := parseDurationOr(config.CatalogCacheTTL, 5*time.Minute)
		catalog = redis.NewCachingCatalogReader(catalog, redis.NewClient(config.RedisHost), ttl)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		locker:     locks.NewKeyedMutex(),
		hub:        ws.NewHub(),
		publisher:  kafka.NewPublisher([]string{config.KafkaHost}, config.KafkaEventsTopic),
		logger:     logger,
		config:     config,
	}
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) Close() {
	c.hub.Close()
	if err := c.publisher.Close(); err != nil {
		c.logger.Error("Failed to close event publisher", "error", err)
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.createUoWFactory(), c.catalog, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(
		c.createOrderUoWFactory(), c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.createUoWFactory(), c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateReadyForPickupCommandHandler() commands.ReadyForPickupCommandHandler {
	return commands.NewReadyForPickupCommandHandler(
		c.createUoWFactory(), c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkReadyCommandHandler() commands.MarkReadyCommandHandler {
	return commands.NewMarkReadyCommandHandler(
		c.createUoWFactory(), c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkProductUnavailableCommandHandler() commands.MarkProductUnavailableCommandHandler {
	return commands.NewMarkProductUnavailableCommandHandler(
		c.createUoWFactory(), c.catalog, c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(
		c.createFulfillmentUoWFactory(), c.locker, c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRemindPendingSuppliersCommandHandler() commands.RemindPendingSuppliersCommandHandler {
	return commands.NewRemindPendingSuppliersCommandHandler(
		c.createFulfillmentUoWFactory(), c.hub, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderFulfillmentQueryHandler() queries.GetOrderFulfillmentQueryHandler {
	return queries.NewGetOrderFulfillmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSupplierOrdersQueryHandler() queries.GetSupplierOrdersQueryHandler {
	return queries.NewGetSupplierOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderEventsQueryHandler() queries.GetOrderEventsQueryHandler {
	return queries.NewGetOrderEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	schedule := c.config.ReminderSchedule
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	threshold := parseDurationOr(c.config.ReminderThreshold, 15*time.Minute)

	return jobs.NewJobManager(
		c.CreateRemindPendingSuppliersCommandHandler(), schedule, threshold, c.logger)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createOrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createFulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}
