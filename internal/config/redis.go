package config

// Redis backs the login throttle and the report cache. Both features are
// optional: if no server can be reached at startup the constructor returns
// nil and callers must degrade by disabling themselves.

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for the optional redis tier.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads REDIS_* variables. REDIS_HOST/REDIS_PORT take
// precedence over REDIS_ADDR.
func LoadRedisConfig() RedisConfig {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	host := getenv("REDIS_HOST", "")
	port := getenv("REDIS_PORT", "")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	tlsEnv := getenv("REDIS_TLS", "")
	return RedisConfig{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       atoiDefault(getenv("REDIS_DB", ""), 0),
		TLS:      strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
	}
}

// NewRedisClient connects with a short ping timeout and returns nil when
// the server is unreachable.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
