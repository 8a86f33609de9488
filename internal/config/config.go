// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// MinCleanupRetentionDays is the smallest retention the cleanup operation accepts.
const MinCleanupRetentionDays = 7

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BookingConfig struct {
	Timezone  string `yaml:"timezone"`
	OpenHour  int    `yaml:"open_hour"`
	CloseHour int    `yaml:"close_hour"`
	// PropagateUserBookings makes member bookings claim overlapping courts
	// the way admin blocks do.
	PropagateUserBookings bool   `yaml:"propagate_user_bookings"`
	TopologyFile          string `yaml:"topology_file"`
}

type CleanupConfig struct {
	Enabled              bool   `yaml:"enabled"`
	BookingsCron         string `yaml:"bookings_cron"`
	BlockedSlotsCron     string `yaml:"blocked_slots_cron"`
	BookingRetentionDays int    `yaml:"booking_retention_days"`
	BlockRetentionDays   int    `yaml:"block_retention_days"`
}

type EmailConfig struct {
	Enabled bool   `yaml:"enabled"`
	Region  string `yaml:"region"`
	Sender  string `yaml:"sender"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Window        time.Duration `yaml:"window"`
	MaxMutations  int           `yaml:"max_mutations"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
	// TrustProxy reads the client IP from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SecretKey       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Booking   BookingConfig   `yaml:"booking"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of Defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Defaults mirrors config/app.yaml.
func Defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "mphcourts"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database = DatabaseConfig{Driver: "sqlite", Filename: "data/mphcourts.db"}
	cfg.Booking = BookingConfig{Timezone: "Europe/Dublin", OpenHour: 8, CloseHour: 22}
	cfg.Cleanup = CleanupConfig{
		Enabled:              true,
		BookingsCron:         "30 3 * * *",
		BlockedSlotsCron:     "45 3 * * *",
		BookingRetentionDays: 30,
		BlockRetentionDays:   30,
	}
	cfg.Email = EmailConfig{Region: "eu-west-1"}
	cfg.RateLimit = RateLimitConfig{
		Enabled:       true,
		Window:        time.Minute,
		MaxMutations:  20,
		CleanupPeriod: 5 * time.Minute,
	}
	return cfg
}

// Location loads the booking time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Booking.Timezone)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if strings.TrimSpace(c.Booking.Timezone) == "" {
		return fmt.Errorf("booking timezone is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("booking timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.OpenHour < 0 || c.Booking.CloseHour > 24 || c.Booking.OpenHour >= c.Booking.CloseHour {
		return fmt.Errorf("booking hours %d-%d are invalid", c.Booking.OpenHour, c.Booking.CloseHour)
	}

	if c.Cleanup.Enabled {
		for name, expr := range map[string]string{
			"bookings_cron":      c.Cleanup.BookingsCron,
			"blocked_slots_cron": c.Cleanup.BlockedSlotsCron,
		} {
			if _, err := cron.ParseStandard(expr); err != nil {
				return fmt.Errorf("cleanup %s %q: %w", name, expr, err)
			}
		}
		if c.Cleanup.BookingRetentionDays < MinCleanupRetentionDays {
			return fmt.Errorf("cleanup booking_retention_days must be at least %d", MinCleanupRetentionDays)
		}
		if c.Cleanup.BlockRetentionDays < MinCleanupRetentionDays {
			return fmt.Errorf("cleanup block_retention_days must be at least %d", MinCleanupRetentionDays)
		}
	}

	if c.Email.Enabled {
		if c.Email.Sender == "" {
			return fmt.Errorf("email sender is required when email is enabled")
		}
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required when email is enabled")
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
		if c.RateLimit.MaxMutations <= 0 {
			return fmt.Errorf("rate limit max_mutations must be positive")
		}
	}

	return nil
}
