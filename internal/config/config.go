package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Barbers is the fixed, ordered set of bookable barbers.
	Barbers []string
	// TimeSlots is the ordered list of daily time labels (HH:MM).
	TimeSlots []string
	// DaysAhead is how many calendar days (today included) the
	// availability scan covers.
	DaysAhead     int
	MaxSlotsShown int
	MinNameLength int
	SessionTTL    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// defaultTimeSlots mirrors the shop's working hours, including the
// lunch and dinner gaps (no 13:00 or 18:00 slot).
var defaultTimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:30", "14:00", "14:30", "15:00",
	"15:30", "16:00", "16:30", "17:00", "17:30", "18:30",
	"19:00", "19:30",
}

var defaultBarbers = []string{"João", "Carlos", "Marcos"}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		Barbers:        getEnvAsSlice("BARBERS", defaultBarbers),
		TimeSlots:      getEnvAsSlice("TIME_SLOTS", defaultTimeSlots),
		DaysAhead:      getEnvAsInt("DAYS_AHEAD", 7),
		MaxSlotsShown:  getEnvAsInt("MAX_SLOTS_SHOWN", 5),
		MinNameLength:  getEnvAsInt("MIN_NAME_LENGTH", 2),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
