package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

type Config struct {
	Env        string
	ServerPort string

	Storage        string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	MigrateOnStart bool

	JWTSecret     string
	JWTExpiry     time.Duration
	SessionCookie string
	CORSOrigins   []string

	XPPerCompletion int
	XPPerLevel      int

	TelegramToken  string
	CheckinMessage string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		Storage:        strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "reliabot"),
		DBPassword:     getEnv("DB_PASSWORD", "reliabot"),
		DBName:         getEnv("DB_NAME", "reliabot"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/reliabot.db"),
		MigrateOnStart: getBool("MIGRATE_ON_START", true),

		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:     time.Duration(getInt("JWT_EXPIRY_HOURS", 24*30)) * time.Hour,
		SessionCookie: getEnv("SESSION_COOKIE", "reliabot_session"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		XPPerCompletion: getInt("XP_PER_COMPLETION", 10),
		XPPerLevel:      getInt("XP_PER_LEVEL", 100),

		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		CheckinMessage: getEnv("CHECKIN_MESSAGE", "👋 Daily check-in! How are you feeling today? What's one thing you want to accomplish?"),

		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StoragePostgres, StorageSQLite, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q", c.Storage))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}
	if c.XPPerCompletion <= 0 {
		errs = append(errs, errors.New("XP_PER_COMPLETION must be positive"))
	}
	if c.XPPerLevel <= 0 {
		errs = append(errs, errors.New("XP_PER_LEVEL must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN is the keyword/value DSN used by gorm.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// PostgresURL is the pgx5:// URL used by golang-migrate.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return v
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
