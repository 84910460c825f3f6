package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultDelay      = 500 * time.Millisecond
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultOutputDir  = "."
	DefaultTopDomains = 5
)

// ProbeConfig controls the connectivity checks
type ProbeConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	Delay     time.Duration `yaml:"delay" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent" validate:"required"`
}

// ReportConfig controls where and how reports are written
type ReportConfig struct {
	OutputDir           string `yaml:"output_dir" validate:"required"`
	TopDomains          int    `yaml:"top_domains" validate:"gte=0"`
	CollapseTitleGroups bool   `yaml:"collapse_title_groups"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format     string `yaml:"format" validate:"omitempty,oneof=console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
}

// Config holds application configuration
type Config struct {
	Probe  ProbeConfig  `yaml:"probe"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Probe: ProbeConfig{
			Timeout:   DefaultTimeout,
			Delay:     DefaultDelay,
			UserAgent: DefaultUserAgent,
		},
		Report: ReportConfig{
			OutputDir:  DefaultOutputDir,
			TopDomains: DefaultTopDomains,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load reads a YAML file on top of the current values.
// Keys missing from the file keep their current value.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config %q: %w", path, err)
	}
	return nil
}

// WithTimeout sets the per-request timeout
func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Probe.Timeout = d
	return c
}

// WithDelay sets the pause after every probe
func (c *Config) WithDelay(d time.Duration) *Config {
	c.Probe.Delay = d
	return c
}

// WithUserAgent sets the User-Agent header sent with every probe
func (c *Config) WithUserAgent(ua string) *Config {
	c.Probe.UserAgent = ua
	return c
}

// WithOutputDir sets the directory reports are written to
func (c *Config) WithOutputDir(dir string) *Config {
	c.Report.OutputDir = dir
	return c
}

// WithCollapseTitleGroups toggles one title-duplicate entry per title instead of per bookmark
func (c *Config) WithCollapseTitleGroups(collapse bool) *Config {
	c.Report.CollapseTitleGroups = collapse
	return c
}

// WithLogLevel sets the minimum log level
func (c *Config) WithLogLevel(level string) *Config {
	c.Log.Level = strings.ToLower(level)
	return c
}

// WithLogFormat sets the console log format
func (c *Config) WithLogFormat(format string) *Config {
	c.Log.Format = strings.ToLower(format)
	return c
}

// WithLogFile enables logging to a rotating file
func (c *Config) WithLogFile(path string) *Config {
	c.Log.File = path
	return c
}

// ValidationError reports a single invalid configuration field
type ValidationError struct {
	Field string
	Value any
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: field '%s' with value '%v' fails '%s'", e.Field, e.Value, e.Rule)
}

// Validate checks the configuration and returns the first invalid field
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Namespace(), Value: fe.Value(), Rule: fe.Tag()}
	}
	return fmt.Errorf("validate config: %w", err)
}
