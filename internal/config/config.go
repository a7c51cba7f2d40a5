package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	TemplatesDir string
	StaticDir    string
	UploadDir    string
	LogFile      string
	LogLevel     string

	StorageBackend string // disk | minio
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	NATSURL string

	StrictModeration bool
	CookieSecure     bool

	AdminEmail    string
	AdminPassword string
}

// Load reads the environment, after applying an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "3001"),
		DBDSN:        getEnv("DB_DSN", "antiquites.db"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:    getEnv("STATIC_DIR", "./web/static"),
		UploadDir:    getEnv("UPLOAD_DIR", "./web/uploads"),
		LogFile:      getEnv("LOG_FILE", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		StorageBackend: getEnv("STORAGE_BACKEND", "disk"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "announcement-photos"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),

		NATSURL: getEnv("NATS_URL", ""),

		StrictModeration: getBool("STRICT_MODERATION", false),
		CookieSecure:     getBool("COOKIE_SECURE", false),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@antiquites.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s STORAGE_BACKEND=%s STRICT_MODERATION=%t",
		cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.StorageBackend, cfg.StrictModeration)
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
