package database

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DriverPostgres selects PostgreSQL through lib/pq.
	DriverPostgres = "postgres"
	// DriverSQLite selects the pure Go SQLite driver.
	DriverSQLite = "sqlite"
)

// Config holds database connection settings.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path" envconfig:"DB_PATH"`
	// MigrationsDir defaults to ./migrations.
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// Enabled reports whether a database is configured at all.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Driver) != ""
}

// DriverName returns the normalized driver, defaulting to postgres.
func (c Config) DriverName() string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	switch d {
	case "", "pg", "postgresql":
		return DriverPostgres
	case "sqlite3":
		return DriverSQLite
	}
	return d
}

// Validate checks that the fields required by the selected driver are set.
func (c Config) Validate() error {
	switch c.DriverName() {
	case DriverPostgres:
		if strings.TrimSpace(c.Host) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("database.host and database.name are required for postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("invalid database.driver %q; allowed: postgres, sqlite", c.Driver)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("database.max_connections must be >= 0")
	}
	return nil
}

// DSN returns the connection string handed to database/sql.
func (c Config) DSN() string {
	if c.DriverName() == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.sslMode(),
	)
}

// MigrateURL returns the golang-migrate database URL.
func (c Config) MigrateURL() string {
	if c.DriverName() == DriverSQLite {
		return "sqlite://" + c.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.sslMode()),
	}
	if c.Port == "" {
		u.Host = c.Host
	}
	return u.String()
}

func (c Config) sslMode() string {
	if s := strings.TrimSpace(c.SSLMode); s != "" {
		return s
	}
	return "disable"
}
