package config

import (
	"strconv"
	"time"
)

// LoginThrottleConfig controls the fixed-window throttle applied to the
// login endpoint. The window is keyed by client IP plus the submitted
// identifier.
type LoginThrottleConfig struct {
	Enabled  bool          // disable to let every attempt through
	Limit    int           // attempts allowed per window
	Window   time.Duration // window length
	Prefix   string        // redis key namespace
}

// LoadLoginThrottleConfig reads environment variables and applies sane
// floors so a misconfigured deployment never locks everyone out instantly.
func LoadLoginThrottleConfig() LoginThrottleConfig {
	cfg := LoginThrottleConfig{
		Enabled: getenv("LOGIN_THROTTLE_ENABLED", "true") == "true",
		Limit:   atoiDefault(getenv("LOGIN_THROTTLE_LIMIT", "10"), 10),
		Window:  durDefault(getenv("LOGIN_THROTTLE_WINDOW", "1m"), time.Minute),
		Prefix:  getenv("LOGIN_THROTTLE_PREFIX", "login"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func durDefault(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
