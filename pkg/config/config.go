package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Detector  DetectorConfig
	Storage   StorageConfig
	Stats     StatsConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
	// BaseURL is the public prefix used when building image URLs,
	// e.g. http://localhost:8888
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type DetectorConfig struct {
	Python         string // Python interpreter
	Script         string // face-crop script path
	TimeoutSeconds int    // subprocess deadline
}

type StorageConfig struct {
	Dir string // root of the uploads/process/histories directories
}

type StatsConfig struct {
	Timezone string // calendar-day zone for entry statistics
}

type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int
	WindowSeconds     int
	AuthMaxRequests   int
	AuthWindowSeconds int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	detectorTimeout, _ := strconv.Atoi(getEnv("DETECTOR_TIMEOUT_SECONDS", "120"))
	maxRequests, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "120"))
	windowSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	authMaxRequests, _ := strconv.Atoi(getEnv("RATE_LIMIT_AUTH_MAX_REQUESTS", "10"))
	authWindowSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_AUTH_WINDOW_SECONDS", "60"))

	port := getEnv("APP_PORT", "8888")

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "Face Attendance API"),
			Port:    port,
			Env:     getEnv("APP_ENV", "development"),
			BaseURL: getEnv("APP_BASE_URL", "http://localhost:"+port),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "face_attendance"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Detector: DetectorConfig{
			Python:         getEnv("DETECTOR_PYTHON", "python3"),
			Script:         getEnv("DETECTOR_SCRIPT", "model/face_crop.py"),
			TimeoutSeconds: detectorTimeout,
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", "public"),
		},
		Stats: StatsConfig{
			Timezone: getEnv("STATS_TIMEZONE", "Asia/Ho_Chi_Minh"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			MaxRequests:       maxRequests,
			WindowSeconds:     windowSeconds,
			AuthMaxRequests:   authMaxRequests,
			AuthWindowSeconds: authWindowSeconds,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
