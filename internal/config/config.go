// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Supported locales for user-facing labels
const (
	LocaleKorean  = "ko"
	LocaleEnglish = "en"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`
	Locale      string   `mapstructure:"locale"`

	// Delivery settings
	CollectorBaseURL string `mapstructure:"collectorbaseurl"`
	// ServerLogging controls whether events are actually submitted to
	// the collector; when false the engine runs dry and only the
	// diagnostic sinks see events.
	ServerLogging bool `mapstructure:"serverlogging"`

	// Collector (dev stub) settings
	CollectorPort string `mapstructure:"collectorport"`

	// Diagnostic settings
	StoragePath    string `mapstructure:"storagepath"`
	ArchiveEnabled bool   `mapstructure:"archiveenabled"`
	ArchivePath    string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "surveytrace")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("locale", LocaleKorean)
		v.SetDefault("collectorbaseurl", "http://localhost:8080")
		v.SetDefault("serverlogging", true)
		v.SetDefault("collectorport", "8080")
		v.SetDefault("storagepath", "storage")
		v.SetDefault("archiveenabled", false)
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)

		// Bind environment variables
		v.BindEnv("appname", "SURVEYTRACE_APP_NAME")
		v.BindEnv("environment", "SURVEYTRACE_ENV")
		v.BindEnv("loglevel", "SURVEYTRACE_LOG_LEVEL")
		v.BindEnv("locale", "SURVEYTRACE_LOCALE")
		v.BindEnv("collectorbaseurl", "SURVEYTRACE_COLLECTOR_BASE_URL")
		v.BindEnv("serverlogging", "SURVEYTRACE_SERVER_LOGGING")
		v.BindEnv("collectorport", "SURVEYTRACE_COLLECTOR_PORT")
		v.BindEnv("storagepath", "SURVEYTRACE_STORAGE_PATH")
		v.BindEnv("archiveenabled", "SURVEYTRACE_ARCHIVE_ENABLED")
		v.BindEnv("logsdir", "SURVEYTRACE_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "SURVEYTRACE_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "SURVEYTRACE_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "SURVEYTRACE_LOGS_MAX_AGE_IN_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.ArchivePath = cfg.GetArchivePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLocales := map[string]bool{
		LocaleKorean:  true,
		LocaleEnglish: true,
	}
	if !validLocales[c.Locale] {
		return fmt.Errorf("invalid locale: %s", c.Locale)
	}

	return nil
}

// GetArchivePath returns the diagnostic archive path based on environment
func (c *Config) GetArchivePath() string {
	if c.ArchivePath == "" {
		c.ArchivePath = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.ArchivePath
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetLogLevel returns the log level as a string
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// Locale helpers used when building the label translator.
func (c *Config) IsEnglishLocale() bool {
	return c.Locale == LocaleEnglish
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
