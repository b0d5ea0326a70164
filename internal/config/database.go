package config

import (
	"fmt"
	"net/url"
)

// GetDatabaseURL returns the database URL for the current configuration
func GetDatabaseURL() string {
	return DatabaseURL(Get().Database)
}

// DatabaseURL builds a connection URL from a database config. An explicit URL
// always wins.
func DatabaseURL(cfg DatabaseFullConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	switch cfg.Type {
	case "postgres":
		return buildPostgresURL(cfg)
	default:
		return "sqlite://" + cfg.DatabasePath
	}
}

// PostgresDSN returns a key=value DSN understood by the pgx driver
func PostgresDSN(cfg DatabaseFullConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)
}

// buildPostgresURL builds a PostgreSQL connection URL from config
func buildPostgresURL(cfg DatabaseFullConfig) string {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}
	if cfg.SSLMode != "" {
		u.RawQuery = "sslmode=" + cfg.SSLMode
	}
	return u.String()
}
