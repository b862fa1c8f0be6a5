package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	MinIO    MinIOConfig
	Lecture  LectureConfig
	Job      JobConfig
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // lectures
	UseSSL    bool   // false for local
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string

	// HTTP server; WriteTimeout also caps how long a lecture stream may run
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
	Migrate  bool
	Populate bool // dev only: truncate + seed on startup

	// SeedPassword is the password of the seeded admin account
	SeedPassword string

	// Pool lifecycle + connect retry
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	ConnectTimeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	RolesTTL time.Duration
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
	To       string // recipient of "new lecture" notifications
}

// =====================================================
// LECTURE CONFIGURATION
// =====================================================

type LectureConfig struct {
	// StoreTimeout bounds reads and uniqueness checks against the store
	StoreTimeout time.Duration
	// MaxUploadSize caps multimedia uploads in bytes
	MaxUploadSize int64
}

type JobConfig struct {
	OrphanMediaCron string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "lectures"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Lecture API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),

			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "lecture"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getEnvInt("DB_MAX_CONNS", 25),
			MinConns:     getEnvInt("DB_MIN_CONNS", 5),
			Migrate:      getEnvBool("DB_MIGRATE", true),
			Populate:     getEnvBool("DB_POPULATE", false),
			SeedPassword: getEnv("DB_POPULATE_PASSWORD", "p"),

			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			MaxRetries:      getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:      getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			RolesTTL: getEnvDuration("REDIS_ROLES_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60), // 1 hour
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			From:     getEnv("EMAIL_FROM", "noreply@lecture.dev"),
			To:       getEnv("LECTURE_NOTIFY_TO", "sales@lecture.dev"),
		},
		Lecture: LectureConfig{
			StoreTimeout:  getEnvDuration("LECTURE_STORE_TIMEOUT", 500*time.Millisecond),
			MaxUploadSize: int64(getEnvInt("LECTURE_MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		},
		Job: JobConfig{
			OrphanMediaCron: getEnv("JOB_ORPHAN_MEDIA_CRON", "0 3 * * *"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Lecture.StoreTimeout <= 0 {
		return fmt.Errorf("LECTURE_STORE_TIMEOUT must be positive")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Database.MaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Database.Populate {
			return fmt.Errorf("DB_POPULATE is not allowed in production")
		}
	}

	return nil
}

// IsDevelopment reports whether dev-only features (seeding) may run
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
