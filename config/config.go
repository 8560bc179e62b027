package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultStoreURL dipakai bila endpoint spreadsheet tidak diset di file pengaturan maupun env.
// Kosong berarti tidak ada endpoint bawaan, sehingga store lokal (MariaDB/memori) yang dipakai.
var DefaultStoreURL = ""

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	AdminUsername     string
	AdminPasswordHash string // bcrypt

	// akun baca-saja opsional, kosong berarti tidak ada
	ViewerUsername     string
	ViewerPasswordHash string

	StoreURL            string
	StoreTimeoutSeconds int
	StoreRetryMax       int
	SettingsFile        string
	SearchFields        string

	RabbitMQURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSOrigins []string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg(".env file not found. Relying on environment variables.")
		}
		cfg = fromEnv()
	})
	return cfg
}

func fromEnv() *Config {
	return &Config{
		AppEnv:     getEnv("APP_ENV", "production"),
		Port:       getEnv("PORT", "8080"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "igd"),
		JWTSecret:  os.Getenv("JWT_SECRET_KEY"),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		ViewerUsername:     os.Getenv("VIEWER_USERNAME"),
		ViewerPasswordHash: os.Getenv("VIEWER_PASSWORD_HASH"),

		StoreURL:            os.Getenv("STORE_URL"),
		StoreTimeoutSeconds: getEnvInt("STORE_TIMEOUT_SECONDS", 30),
		StoreRetryMax:       getEnvInt("STORE_RETRY_MAX", 0),
		SettingsFile:        getEnv("SETTINGS_FILE", "pengaturan.yaml"),
		SearchFields:        getEnv("SEARCH_FIELDS", "nama_kib"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "igd-backup"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
	}
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "development"
}

// DatabaseConfigured true bila MariaDB bisa dipakai sebagai store cadangan.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("nilai env bukan angka, memakai default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
