package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from the environment, falling back to the
// `default` tag of each field, and validates the result.
func Load() (*Config, error) {
	cfg, err := load(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Defaults returns the configuration built from tag defaults only, ignoring
// the environment. Used by the CLI and tests.
func Defaults() *Config {
	cfg, _ := load(func(string) string { return "" })
	return cfg
}

// load fills every section of Config. Each section is a flat struct whose
// fields carry `env`, optional `envAlt` and optional `default` tags.
func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	sections := reflect.ValueOf(cfg).Elem()

	for i := 0; i < sections.NumField(); i++ {
		section := sections.Field(i)
		fields := section.Type()

		for j := 0; j < fields.NumField(); j++ {
			tag := fields.Field(j).Tag
			name := tag.Get("env")
			if name == "" {
				continue
			}

			value := getenv(name)
			if value == "" {
				if alt := tag.Get("envAlt"); alt != "" {
					value = getenv(alt)
				}
			}
			if value == "" {
				value = tag.Get("default")
			}
			if value == "" {
				continue
			}

			if err := decode(section.Field(j).Addr().Interface(), value); err != nil {
				return cfg, fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
			}
		}
	}

	return cfg, nil
}

// decode parses value into the field dst points to.
func decode(dst any, value string) error {
	var err error
	switch p := dst.(type) {
	case *string:
		*p = value
	case *bool:
		*p, err = strconv.ParseBool(value)
	case *int:
		*p, err = strconv.Atoi(value)
	case *int64:
		*p, err = strconv.ParseInt(value, 10, 64)
	case *time.Duration:
		*p, err = time.ParseDuration(value)
	case *[]string:
		*p = splitList(value)
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return err
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// problems collects every validation failure so they are reported at once.
type problems []string

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	var p problems

	p.check(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	p.check(c.Server.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	p.check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	p.check(c.Server.RequestTimeout > 0, "SERVER_REQUEST_TIMEOUT must be positive")

	p.check(c.Upload.MaxFileSize > 0, "UPLOAD_MAX_FILE_SIZE must be positive")
	p.check(c.Upload.MaxConcurrent > 0, "UPLOAD_MAX_CONCURRENT must be positive")
	p.check(c.Upload.MaxWaitTime > 0, "UPLOAD_MAX_WAIT_TIME must be positive")

	p.check(c.Session.IdleTTL > 0, "SESSION_IDLE_TTL must be positive")
	p.check(c.Session.SweepInterval > 0, "SESSION_SWEEP_INTERVAL must be positive")
	p.check(strings.TrimSpace(c.Session.CookieName) != "", "SESSION_COOKIE_NAME must not be empty")

	p.check(!c.Rate.Enabled || c.Rate.RequestsPerMinute > 0,
		"RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")

	p.check(!c.Security.RequireAPIKey || len(c.Security.APIKeys) > 0,
		"REQUIRE_API_KEY is true but API_KEYS is empty")

	// Pool sizing only matters when the audit database is configured.
	if c.Database.Enabled() {
		p.check(c.Database.MaxConns > 0, "DB_MAX_CONNS must be positive")
		p.check(c.Database.MinConns >= 0, "DB_MIN_CONNS must be non-negative")
		p.check(c.Database.MaxConns >= c.Database.MinConns,
			"DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns)
	}

	p.check(c.Audit.MemoryCapacity > 0, "AUDIT_MEMORY_CAPACITY must be positive")
	p.check(c.Audit.RetentionDays > 0, "AUDIT_RETENTION_DAYS must be positive")
	p.check(c.Audit.CheckInterval > 0, "AUDIT_CHECK_INTERVAL must be positive")

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		p.check(false, "LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		p.check(false, "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(p) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(p, "\n  - "))
	}
	return nil
}

// String summarizes the config for logs. The database URL and API keys
// are never printed.
func (c *Config) String() string {
	db := "memory"
	if c.Database.Enabled() {
		db = fmt.Sprintf("postgres [MASKED] (max %d conns)", c.Database.MaxConns)
	}

	return fmt.Sprintf(
		"listen=%s upload=%dB/%d parallel session_ttl=%s rate=%v/%d per min api_keys=%d audit=%s log=%s/%s",
		c.Server.Addr(),
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent,
		c.Session.IdleTTL,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		len(c.Security.APIKeys),
		db,
		c.Logging.Level, c.Logging.Format,
	)
}
