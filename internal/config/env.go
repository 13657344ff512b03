package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr      string
	GinMode      string
	DBDSN        string
	JWTSecret    string
	TokenTTL     time.Duration
	AdvanceFlat  int64
	BookingHold  time.Duration
	QueryTimeout time.Duration
}

// LoadEnv reads configuration from the environment, loading .env first when present.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	return Env{
		AppAddr:      envString("APP_ADDR", ":8080"),
		GinMode:      envString("GIN_MODE", ""),
		DBDSN:        envString("DB_DSN", ""),
		JWTSecret:    envString("JWT_SECRET", "change-me-in-production"),
		TokenTTL:     envHours("TOKEN_TTL_HOURS", 24),
		AdvanceFlat:  envInt64("ADVANCE_FLAT_AMOUNT", 500),
		BookingHold:  envHours("BOOKING_HOLD_TTL_HOURS", 48),
		QueryTimeout: envSeconds("QUERY_TIMEOUT_SECONDS", 5),
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		log.Printf("warning: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envHours(key string, def int64) time.Duration {
	return time.Duration(envInt64(key, def)) * time.Hour
}

func envSeconds(key string, def int64) time.Duration {
	return time.Duration(envInt64(key, def)) * time.Second
}
