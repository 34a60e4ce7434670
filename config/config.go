package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Presence   PresenceConfig
	Location   LocationConfig
	Map        MapConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string // unsigned preset; used when API credentials are absent
	Folder       string
}

// PresenceConfig controls the discoverability lifecycle around the live map
// stream. Whether opening the map implicitly marks the caller discoverable
// is a product decision, so both behaviors stay configurable.
type PresenceConfig struct {
	AutoDiscoverableOnConnect bool
	OfflineOnDisconnect       bool
	SnapshotBuffer            int
}

type LocationConfig struct {
	MinUpdateInterval     time.Duration
	MinDisplacementMeters float64
}

type MapConfig struct {
	MapboxToken string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "sakaylink:sakaylink@tcp(localhost:3306)/sakaylink?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Expiry: getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			Issuer: getEnv("JWT_ISSUER", "sakaylink"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "sakaylink_app_preset"),
			Folder:       getEnv("CLOUDINARY_FOLDER", "sakaylink_app"),
		},
		Presence: PresenceConfig{
			AutoDiscoverableOnConnect: getBoolEnv("PRESENCE_AUTO_DISCOVERABLE_ON_CONNECT", false),
			OfflineOnDisconnect:       getBoolEnv("PRESENCE_OFFLINE_ON_DISCONNECT", true),
			SnapshotBuffer:            getIntEnv("PRESENCE_SNAPSHOT_BUFFER", 1),
		},
		Location: LocationConfig{
			MinUpdateInterval:     getDurationEnv("LOCATION_MIN_UPDATE_INTERVAL", 5*time.Second),
			MinDisplacementMeters: getFloatEnv("LOCATION_MIN_DISPLACEMENT_M", 10),
		},
		Map: MapConfig{
			MapboxToken: getEnv("MAPBOX_TOKEN", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
