// Package config holds the buylist bot configuration: the reusable core
// sections plus the list source, database, paging and metrics settings.
package config

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/buylist/core/config"
	coredatabase "github.com/m3rciful/buylist/core/database"
)

const (
	// SourceFile reads items.list and users.list style flat files.
	SourceFile = "file"
	// SourceSheets reads a Google spreadsheet.
	SourceSheets = "sheets"
	// SourceDB reads the items and authorized_users tables.
	SourceDB = "db"
	// SourceS3 reads the flat files from an S3 bucket.
	SourceS3 = "s3"
)

// FileSourceConfig points at the two newline-delimited lists.
type FileSourceConfig struct {
	ItemsPath string `yaml:"items_path" envconfig:"ITEMS_FILE"`
	UsersPath string `yaml:"users_path" envconfig:"USERS_FILE"`
}

// SheetsSourceConfig selects the spreadsheet and the service account used to read it.
type SheetsSourceConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SHEETS_SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	// HeaderRows skips that many leading rows on both worksheets.
	HeaderRows int `yaml:"header_rows" envconfig:"SHEETS_HEADER_ROWS"`
	// Endpoint overrides the API base URL, e.g. for a local emulator.
	Endpoint string `yaml:"endpoint" envconfig:"SHEETS_ENDPOINT"`
}

// S3SourceConfig locates the two list objects.
type S3SourceConfig struct {
	Bucket       string `yaml:"bucket" envconfig:"S3_BUCKET"`
	ItemsKey     string `yaml:"items_key" envconfig:"S3_ITEMS_KEY"`
	UsersKey     string `yaml:"users_key" envconfig:"S3_USERS_KEY"`
	Region       string `yaml:"region" envconfig:"AWS_REGION"`
	Endpoint     string `yaml:"endpoint" envconfig:"S3_ENDPOINT"`
	UsePathStyle bool   `yaml:"use_path_style" envconfig:"S3_USE_PATH_STYLE"`
}

// SourceConfig selects and configures the Source Reader.
type SourceConfig struct {
	Driver string             `yaml:"driver" envconfig:"SOURCE_DRIVER"`
	File   FileSourceConfig   `yaml:"file"`
	Sheets SheetsSourceConfig `yaml:"sheets"`
	S3     S3SourceConfig     `yaml:"s3"`
}

// ListConfig tunes the list views.
type ListConfig struct {
	PageSize int `yaml:"page_size" envconfig:"LIST_PAGE_SIZE"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Source   SourceConfig        `yaml:"source"`
	Database coredatabase.Config `yaml:"database"`
	List     ListConfig          `yaml:"list"`
	Metrics  MetricsConfig       `yaml:"metrics"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file at path, applies .env and environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSource is Load without the Telegram checks, for commands that only
// touch the source and the database.
func LoadSource(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := NormalizeSource(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if err := NormalizeSource(cfg); err != nil {
		return err
	}
	if cfg.List.PageSize == 0 {
		cfg.List.PageSize = 10
	}
	if cfg.List.PageSize < 0 {
		return fmt.Errorf("list.page_size must be > 0")
	}
	cfg.Metrics.Listen = strings.TrimSpace(cfg.Metrics.Listen)
	if cfg.Metrics.Listen != "" && !strings.Contains(cfg.Metrics.Listen, ":") {
		return fmt.Errorf("metrics.listen must be host:port, got %q", cfg.Metrics.Listen)
	}
	return nil
}

// NormalizeSource validates only the source and database sections. The
// source and migrate commands use it without requiring a bot token.
func NormalizeSource(cfg *Config) error {
	src := &cfg.Source
	src.Driver = strings.ToLower(strings.TrimSpace(src.Driver))
	if src.Driver == "" {
		src.Driver = SourceFile
	}
	switch src.Driver {
	case SourceFile:
		if src.File.ItemsPath == "" {
			src.File.ItemsPath = "items.list"
		}
		if src.File.UsersPath == "" {
			src.File.UsersPath = "users.list"
		}
	case SourceSheets:
		if strings.TrimSpace(src.Sheets.SpreadsheetID) == "" {
			return fmt.Errorf("source.sheets.spreadsheet_id is required for the sheets source")
		}
		if src.Sheets.HeaderRows < 0 {
			return fmt.Errorf("source.sheets.header_rows must be >= 0")
		}
	case SourceS3:
		if strings.TrimSpace(src.S3.Bucket) == "" {
			return fmt.Errorf("source.s3.bucket is required for the s3 source")
		}
		if src.S3.ItemsKey == "" {
			src.S3.ItemsKey = "items.list"
		}
		if src.S3.UsersKey == "" {
			src.S3.UsersKey = "users.list"
		}
	case SourceDB:
		if !cfg.Database.Enabled() {
			return fmt.Errorf("database.driver is required for the db source")
		}
	default:
		return fmt.Errorf("invalid source.driver %q; allowed: file, sheets, db, s3", src.Driver)
	}
	if cfg.Database.Enabled() {
		if err := cfg.Database.Validate(); err != nil {
			return err
		}
	}
	return nil
}
