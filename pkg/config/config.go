// Package config provides the configuration system for the tabular
// loaders. It defines a single Config structure shared by the library
// entry points and the command-line tool.
//
// The configuration is organized into logical sections:
//   - Input: encoding and dialect overrides for reading
//   - Output: formatting options for writing
//   - Logging: log level and encoder selection
//
// Example usage:
//
//	cfg := config.NewDefault()
//	cfg.Input.Encoding = "iso-8859-1"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/tabulario/tabular/pkg/errors"
)

// Config is the unified configuration for reading and writing tables.
type Config struct {
	// Input settings override the automatic read-path resolution.
	Input InputConfig `yaml:"input" json:"input" mapstructure:"input"`

	// Output settings control the write path.
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`

	// Logging settings for the process-wide logger.
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// InputConfig contains read-path overrides. Zero values mean "detect".
type InputConfig struct {
	// Encoding forces a text encoding instead of detection
	// (e.g. "utf-8", "iso-8859-1", "utf-16le").
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	// Delimiter forces a field delimiter instead of sniffing.
	Delimiter string `yaml:"delimiter" json:"delimiter" mapstructure:"delimiter"`
	// Sheet selects a spreadsheet sheet by name.
	Sheet string `yaml:"sheet" json:"sheet" mapstructure:"sheet"`
	// ReuseVariables resolves columns through the shared variable
	// registry so repeated loads share Variable identity.
	ReuseVariables bool `yaml:"reuse_variables" json:"reuse_variables" mapstructure:"reuse_variables"`
}

// OutputConfig contains write-path settings.
type OutputConfig struct {
	// Delimiter overrides the format's default field delimiter.
	Delimiter string `yaml:"delimiter" json:"delimiter" mapstructure:"delimiter"`
	// Overwrite allows replacing an existing destination file.
	Overwrite bool `yaml:"overwrite" json:"overwrite" mapstructure:"overwrite"`
}

// LoggingConfig selects the logger behavior.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// Encoding is "console" or "json".
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	// Development enables development-mode stack traces.
	Development bool `yaml:"development" json:"development" mapstructure:"development"`
}

// NewDefault returns a Config with sensible defaults.
func NewDefault() *Config {
	return &Config{
		Input: InputConfig{
			ReuseVariables: true,
		},
		Output: OutputConfig{
			Overwrite: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads configuration from the given file (optional) and the
// TABULAR_* environment, layered over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TABULAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot read config "+path)
		}
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "invalid log level %q", c.Logging.Level)
	}

	switch c.Logging.Encoding {
	case "", "console", "json":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "invalid log encoding %q", c.Logging.Encoding)
	}

	if len([]rune(c.Input.Delimiter)) > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "input delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if len([]rune(c.Output.Delimiter)) > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "output delimiter must be a single character, got %q", c.Output.Delimiter)
	}
	return nil
}
