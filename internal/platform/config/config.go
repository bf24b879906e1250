package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultMinAge is the minimum eligible age in whole years when
// ROSTER_MIN_AGE is unset. Read once at startup; constant for the
// process lifetime.
const DefaultMinAge = 18

// Server captures process-level configuration.
type Server struct {
	Addr   string
	MinAge int

	// PostgresDSN selects the Postgres-backed store when set; the
	// in-memory store is used otherwise (development, tests).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
}

// RedisConfig configures the optional read-through cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional lifecycle event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ROSTER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	minAge := DefaultMinAge
	if raw := os.Getenv("ROSTER_MIN_AGE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			minAge = parsed
		}
	}

	topic := os.Getenv("ROSTER_KAFKA_TOPIC")
	if topic == "" {
		topic = "roster.user.events"
	}

	var brokers []string
	if raw := os.Getenv("ROSTER_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:        addr,
		MinAge:      minAge,
		PostgresDSN: os.Getenv("ROSTER_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("ROSTER_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
