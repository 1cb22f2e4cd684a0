package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	// Embedded zone data so the display zone resolves on minimal hosts.
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/Veraticus/malex-office/internal/common"
)

// Configuration keys.
const (
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyDatabasePath    = "database.path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyDisplayTimezone = "display.timezone"
	KeyDisplayOffset   = "display.utc_offset_hours"
)

// Defaults.
const (
	DefaultAPIBaseURL   = "https://malexoffice-bkdt.onrender.com/api"
	DefaultAPITimeout   = 30 * time.Second
	DefaultDatabasePath = "~/.local/share/malex/malex.db"
	DefaultTimezone     = "Africa/Nairobi"
	// DefaultOffsetHours undoes the backend storing local wall time as UTC.
	DefaultOffsetHours = -3
)

// Config is the typed view of the settings the commands need.
type Config struct {
	Location     *time.Location
	APIBaseURL   string
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Timezone     string
	APITimeout   time.Duration
	OffsetHours  int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(KeyAPITimeout, DefaultAPITimeout)
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDisplayTimezone, DefaultTimezone)
	v.SetDefault(KeyDisplayOffset, DefaultOffsetHours)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		APIBaseURL:   strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APITimeout:   v.GetDuration(KeyAPITimeout),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		Timezone:     v.GetString(KeyDisplayTimezone),
		OffsetHours:  v.GetInt(KeyDisplayOffset),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("%w: unknown time zone %q: %w", common.ErrInvalidConfig, cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", common.ErrInvalidConfig, KeyAPIBaseURL, c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must use http or https", common.ErrInvalidConfig, KeyAPIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyAPITimeout)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	if c.OffsetHours < -14 || c.OffsetHours > 14 {
		return fmt.Errorf("%w: %s out of range", common.ErrInvalidConfig, KeyDisplayOffset)
	}
	return nil
}
