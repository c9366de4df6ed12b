// Package config loads the runtime configuration from TOML.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
)

// Config is the top-level runtime configuration.
type Config struct {
	Runtime Runtime `toml:"runtime"`
	Codec   Codec   `toml:"codec"`
}

// Runtime configures the evaluation context and logging.
type Runtime struct {
	// Domain is the party view the interpreter executes in.
	Domain    string `toml:"domain"`
	LogLevel  string `toml:"log-level"`
	LogFormat string `toml:"log-format"` // "console" or "json"
}

// Codec configures the numeric codec.
type Codec struct {
	// Modulus is the default field modulus, decimal or 0x-prefixed hex.
	Modulus string `toml:"modulus"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Runtime: Runtime{
			Domain:    "prover",
			LogLevel:  "info",
			LogFormat: "console",
		},
		Codec: Codec{
			// 2^61 - 1
			Modulus: "2305843009213693951",
		},
	}
}

// Load reads and validates a configuration file. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "cannot read "+path)
	}
	cfg, err := Parse(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = append([]string{path}, e.Path...)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates TOML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse error")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown keys: "+strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted set of values.
func (c *Config) Validate() error {
	if _, err := domain.ParseDomain(c.Runtime.Domain); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Runtime.LogLevel); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log-level")
	}
	switch c.Runtime.LogFormat {
	case "console", "json":
	default:
		return errors.InvalidInput(errors.PhaseConfig, "log-format must be console or json, got "+c.Runtime.LogFormat)
	}
	if _, err := domain.ParseModulus(c.Codec.Modulus); err != nil {
		return err
	}
	return nil
}

// CurrentDomain returns the configured execution domain.
func (c *Config) CurrentDomain() domain.Domain {
	d, err := domain.ParseDomain(c.Runtime.Domain)
	if err != nil {
		return domain.Public
	}
	return d
}

// DefaultModulus returns the configured codec modulus.
func (c *Config) DefaultModulus() (*domain.Modulus, error) {
	return domain.ParseModulus(c.Codec.Modulus)
}

// NewLogger builds a zap logger with the configured level and encoding.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Runtime.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log-level")
	}
	zc := zap.NewProductionConfig()
	if c.Runtime.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
