package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"lecture-backend/internal/config"
	infraCache "lecture-backend/internal/infrastructure/cache"
	"lecture-backend/internal/infrastructure/database"
	"lecture-backend/internal/infrastructure/queue"
	"lecture-backend/internal/infrastructure/storage"
	"lecture-backend/pkg/cache"
	pkgDatabase "lecture-backend/pkg/database"
	"lecture-backend/pkg/jwt"
	"lecture-backend/pkg/logger"

	// Account domain
	accountHandler "lecture-backend/internal/domains/account/handler"
	accountRepo "lecture-backend/internal/domains/account/repository"
	accountService "lecture-backend/internal/domains/account/service"

	// Lecture domain
	lectureHandler "lecture-backend/internal/domains/lecture/handler"
	lectureRepo "lecture-backend/internal/domains/lecture/repository"
	lectureService "lecture-backend/internal/domains/lecture/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Dùng chung cho cmd/api và cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	AsynqClient    *asynq.Client
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	AccountRepo accountRepo.RepositoryInterface
	LectureRepo lectureRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	AccountService    accountService.ServiceInterface
	LectureService    lectureService.ServiceInterface
	ValuesService     lectureService.ValuesServiceInterface
	MultimediaService lectureService.MultimediaServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	AccountHandler    *accountHandler.AccountHandler
	LectureHandler    *lectureHandler.LectureHandler
	ValuesHandler     *lectureHandler.ValuesHandler
	MultimediaHandler *lectureHandler.MultimediaHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, migrations, Cache, Queue, Storage)
// 3. Repositories
// 4. Services
// 5. Handlers
// 6. Dev data (optional)
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig := cfg.PoolConfig()
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	if cfg.Database.Migrate {
		if err := database.RunMigrations(dbConfig); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("✅ Migrations applied")
	}

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis failure không critical, roles được đọc thẳng từ DB
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ========================================
	// STEP 4: QUEUE + OBJECT STORAGE
	// ========================================
	c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
	log.Println("✅ Asynq client created")

	log.Println("🪣 Connecting to MinIO...")
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO ready")

	// ========================================
	// STEP 5: REPOSITORIES / SERVICES / HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	// ========================================
	// STEP 6: DEV DATA
	// ========================================
	if cfg.IsDevelopment() && cfg.Database.Populate {
		if err := c.populate(ctx); err != nil {
			return nil, fmt.Errorf("failed to populate database: %w", err)
		}
	}

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// RedisClientOpt là connection option dùng chung cho asynq client, server và scheduler
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AccountRepo = accountRepo.NewPostgresRepository(pool, c.Cache, c.Config.Redis.RolesTTL)
	c.LectureRepo = lectureRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	timeout := c.Config.Lecture.StoreTimeout

	c.AccountService = accountService.NewAccountService(c.AccountRepo, c.Cache, c.JWTManager)

	// AccountService là Access Port của lecture domain
	c.LectureService = lectureService.NewLectureService(
		c.LectureRepo,
		c.AccountService,
		queue.NewLectureNotifier(c.AsynqClient),
		pkgDatabase.NewTransactor(c.DB.Pool),
		timeout,
	)
	c.ValuesService = lectureService.NewValuesService(c.LectureRepo, timeout)
	c.MultimediaService = lectureService.NewMultimediaService(
		c.LectureRepo,
		c.Storage,
		c.ImageProcessor,
		timeout,
		c.Config.Lecture.MaxUploadSize,
	)
}

func (c *Container) initHandlers() {
	c.AccountHandler = accountHandler.NewAccountHandler(c.AccountService)
	c.LectureHandler = lectureHandler.NewLectureHandler(c.LectureService)
	c.ValuesHandler = lectureHandler.NewValuesHandler(c.ValuesService)
	c.MultimediaHandler = lectureHandler.NewMultimediaHandler(c.MultimediaService, c.Config.Lecture.MaxUploadSize)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err == nil {
			log.Println("✅ Database connections closed")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
