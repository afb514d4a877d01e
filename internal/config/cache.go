package config

import "time"

// ReportCacheConfig controls the response cache applied to the read-only
// report endpoints. Reports run aggregate queries, so serving a slightly
// stale copy is acceptable; TTL bounds the staleness.
type ReportCacheConfig struct {
	Enabled bool          // when false the middleware is a no-op
	TTL     time.Duration // lifetime of a cached report body
	Prefix  string        // redis key namespace
}

// LoadReportCacheConfig reads environment variables with defaults.
func LoadReportCacheConfig() ReportCacheConfig {
	cfg := ReportCacheConfig{
		Enabled: getenv("REPORT_CACHE_ENABLED", "true") == "true",
		TTL:     durDefault(getenv("REPORT_CACHE_TTL", "30s"), 30*time.Second),
		Prefix:  getenv("REPORT_CACHE_PREFIX", "report"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
