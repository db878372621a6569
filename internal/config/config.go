package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Environment string
	ServerPort  int
	LogLevel    string

	DatabaseURL    string
	MigrateOnStart bool

	SessionSecret []byte
	SessionTTL    time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginMaxFailures int
	LoginLockout     time.Duration
}

// Development reports whether cookies may be sent over plain HTTP.
func (c Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// LoadDotEnv loads path into the environment; a missing file only logs a notice.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v, using system environment", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "cse_motors"),
		Environment: EnvDefault("NODE_ENV", EnvDefault("APP_ENV", "production")),
		ServerPort:  EnvIntDefault("SERVER_PORT", 5500),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:    databaseURL(),
		MigrateOnStart: EnvBoolDefault("MIGRATE_ON_START", true),

		SessionSecret: []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
		SessionTTL:    time.Duration(EnvIntDefault("SESSION_TTL_SECONDS", 3600)) * time.Second,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "inventory"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		LoginMaxFailures: EnvIntDefault("LOGIN_MAX_FAILURES", 5),
		LoginLockout:     time.Duration(EnvIntDefault("LOGIN_LOCKOUT_SECONDS", 900)) * time.Second,
	}
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from DB_* parts.
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), host,
		EnvDefault("DB_PORT", "5432"), os.Getenv("DB_NAME"),
		EnvDefault("DB_SSLMODE", "disable"),
	)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Missing lists the required variables that are empty.
func (c Config) Missing() []string {
	var out []string
	if c.DatabaseURL == "" {
		out = append(out, "DATABASE_URL")
	}
	if len(c.SessionSecret) == 0 {
		out = append(out, "ACCESS_TOKEN_SECRET")
	}
	return out
}

// MustValid stops the process when a required variable is missing.
func (c Config) MustValid() {
	if missing := c.Missing(); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}
