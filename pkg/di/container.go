package di

import (
	"context"

	"gorm.io/gorm"

	"face-attendance/application/serviceimpl"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/detector"
	"face-attendance/infrastructure/postgres"
	"face-attendance/infrastructure/redis"
	"face-attendance/infrastructure/storage"
	"face-attendance/interfaces/api/handlers"
	"face-attendance/pkg/config"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/scheduler"
)

const orphanSweepJobID = "orphan-sweep"

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	ImageStore     services.ImageStore
	FaceDetector   services.FaceDetector
	EventScheduler scheduler.EventScheduler

	// Repositories
	AccountRepository repositories.AccountRepository
	FaceRepository    repositories.FaceRepository
	HistoryRepository repositories.HistoryRepository

	// Services
	AuthService    services.AuthService
	AccountService services.AccountService
	FaceService    services.FaceService
	HistoryService services.HistoryService
	CleanupService services.CleanupService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initRepositories()
	c.initServices()

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}
	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		logger.StartupError("db_connection_failed", "Database connection failed", err, nil)
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		logger.StartupError("db_migration_failed", "Database migration failed", err, nil)
		return err
	}
	logger.Startup("db_migrated", "Database migrations applied", nil)

	// Redis: statistics caching only, so a failed connection degrades rather
	// than aborts startup.
	redisClient := redis.NewRedisClient(redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()); err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed, statistics caching disabled", map[string]interface{}{"error": err.Error()})
		c.RedisClient = nil
	} else {
		c.RedisClient = redisClient
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	// Image store
	store, err := storage.NewLocalStore(c.Config.Storage.Dir, c.Config.App.BaseURL)
	if err != nil {
		logger.StartupError("storage_init_failed", "Image store initialization failed", err, nil)
		return err
	}
	c.ImageStore = store
	logger.Startup("storage_ready", "Image store ready", map[string]interface{}{"dir": c.Config.Storage.Dir})

	// External face detector
	c.FaceDetector = detector.NewScriptDetector(
		c.Config.Detector.Python,
		c.Config.Detector.Script,
		c.Config.Detector.TimeoutSeconds,
	)
	logger.Startup("detector_ready", "Face detector configured", map[string]interface{}{
		"python": c.Config.Detector.Python,
		"script": c.Config.Detector.Script,
	})

	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepository = postgres.NewAccountRepository(c.DB)
	c.FaceRepository = postgres.NewFaceRepository(c.DB)
	c.HistoryRepository = postgres.NewHistoryRepository(c.DB)
	logger.Startup("repositories_ready", "Repositories initialized", nil)
}

func (c *Container) initServices() {
	c.AuthService = serviceimpl.NewAuthService(c.AccountRepository, c.Config.JWT.Secret)
	c.AccountService = serviceimpl.NewAccountService(c.AccountRepository, c.RedisClient)
	c.FaceService = serviceimpl.NewFaceService(
		c.FaceRepository,
		c.AccountRepository,
		c.FaceDetector,
		c.ImageStore,
		c.RedisClient,
	)
	c.HistoryService = serviceimpl.NewHistoryService(
		c.HistoryRepository,
		c.AccountRepository,
		c.ImageStore,
		c.RedisClient,
		c.Config.Stats.Timezone,
	)
	c.CleanupService = serviceimpl.NewCleanupService(
		c.FaceRepository,
		c.HistoryRepository,
		c.ImageStore,
	)
	logger.Startup("services_ready", "Services initialized", nil)
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	// Hourly reconciliation of stored files against database rows.
	err := c.EventScheduler.AddJob(orphanSweepJobID, "0 * * * *", func() {
		removed, err := c.CleanupService.SweepOrphans(context.Background())
		if err != nil {
			logger.SchedulerError("orphan_sweep_failed", "Orphan sweep failed", err, nil)
			return
		}
		logger.Scheduler("orphan_sweep_done", "Orphan sweep finished", map[string]interface{}{"removed": removed})
	})
	if err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetHandlerServices bundles the services the HTTP handlers need.
func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:    c.AuthService,
		AccountService: c.AccountService,
		FaceService:    c.FaceService,
		HistoryService: c.HistoryService,
	}
}

func (c *Container) Cleanup() error {
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	return nil
}
