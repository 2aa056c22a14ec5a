package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	JWTSigningKey string
	RuleCacheTTL  time.Duration
}

// Audit report paging bounds, matching the reference report of the last
// orders.
const (
	LogPageDefault = 50
	LogPageMax     = 100
)

// FromEnv builds a Server config from environment variables so main stays
// lean. DATABASE_URL, REDIS_URL and KAFKA_BROKERS are all optional: without
// a database the service runs on in-memory stores (development mode), and
// redis/kafka simply stay disabled.
func FromEnv() Server {
	addr := os.Getenv("SHIPRESTRICT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cacheTTL := time.Second
	if raw := os.Getenv("RULE_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			cacheTTL = parsed
		}
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		JWTSigningKey: jwtSigningKey,
		RuleCacheTTL:  cacheTTL,
	}
}
