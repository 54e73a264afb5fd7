// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Catalog() CatalogConfig
	Output() OutputConfig
	Compile() CompileConfig

	SetOutputFormat(format string)
	SetCompileJobs(jobs int)
	SetCompileElement(tag string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	CatalogCfg CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	OutputCfg  OutputConfig  `mapstructure:"output" yaml:"output"`
	CompileCfg CompileConfig `mapstructure:"compile" yaml:"compile"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Catalog() CatalogConfig { return c.CatalogCfg }
func (c *Config) Output() OutputConfig   { return c.OutputCfg }
func (c *Config) Compile() CompileConfig { return c.CompileCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetOutputFormat(format string) { c.OutputCfg.Format = format }
func (c *Config) SetCompileJobs(jobs int)       { c.CompileCfg.Jobs = jobs }
func (c *Config) SetCompileElement(tag string)  { c.CompileCfg.Element = tag }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// CatalogConfig extends the built in HTML attribute catalog. Custom elements
// and framework attributes go here.
type CatalogConfig struct {
	ExtraAttributes map[string][]string `mapstructure:"extra_attributes" yaml:"extra_attributes"`
}

// OutputConfig controls how compiled results are written.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// CompileConfig controls batch compilation.
type CompileConfig struct {
	// Jobs bounds how many selectors compile in parallel.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
	// Element overrides the tag used to pick the attribute catalog.
	Element string `mapstructure:"element" yaml:"element"`
}

// NewDefaultConfig creates a new configuration with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "xlocate")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Catalog --
	v.SetDefault("catalog.extra_attributes", map[string][]string{})

	// -- Output --
	v.SetDefault("output.format", "json")

	// -- Compile --
	v.SetDefault("compile.jobs", 4)
	v.SetDefault("compile.element", "")
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.OutputCfg.Format) {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.OutputCfg.Format)
	}
	if c.CompileCfg.Jobs <= 0 {
		return fmt.Errorf("compile.jobs must be a positive integer")
	}
	for tag, attrs := range c.CatalogCfg.ExtraAttributes {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("catalog.extra_attributes has an empty tag name")
		}
		for _, a := range attrs {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("catalog.extra_attributes.%s has an empty attribute name", tag)
			}
		}
	}
	return nil
}
