package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Log related config.
	Log log.Config `toml:"log"`

	// Address of the HTTP status server. Empty disables it.
	StatusAddr string `toml:"status-addr"`

	Shell   ShellConfig   `toml:"shell"`
	Bench   BenchConfig   `toml:"bench"`
	Storage StorageConfig `toml:"storage"`

	logger   *zap.Logger
	logProps *log.ZapProperties
}

type ShellConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history-file"`
	// Ask before DELETE, COMMIT and ROLLBACK.
	Confirm bool `toml:"confirm"`
}

type BenchConfig struct {
	Workers    int   `toml:"workers"`
	Iterations int   `toml:"iterations"`
	Keys       int   `toml:"keys"` // Keys per worker.
	Seed       int64 `toml:"seed"`
}

type StorageConfig struct {
	// Loaded into the base store at startup.
	InitialData map[string]string `toml:"initial-data"`
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
	"fatal": {},
}

func (c *Config) Validate() error {
	if _, ok := validLogLevels[c.Log.Level]; !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Shell.Prompt == "" {
		return fmt.Errorf("shell prompt must not be empty")
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench workers must be greater than 0")
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("bench iterations must be greater than 0")
	}
	if c.Bench.Keys <= 0 {
		return fmt.Errorf("bench keys must be greater than 0")
	}
	return nil
}

// SetupLogger creates the zap logger described by c.Log.
func (c *Config) SetupLogger() error {
	lg, p, err := log.InitLogger(&c.Log, zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return errors.Trace(err)
	}
	c.logger = lg
	c.logProps = p
	return nil
}

// GetZapLogger gets the created zap logger.
func (c *Config) GetZapLogger() *zap.Logger {
	return c.logger
}

// GetZapLogProperties gets properties of the zap logger.
func (c *Config) GetZapLogProperties() *log.ZapProperties {
	return c.logProps
}

func getLogLevel() (logLevel string) {
	logLevel = "info"
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

func NewDefaultConfig() *Config {
	return &Config{
		Log: log.Config{
			Level: getLogLevel(),
		},
		Shell: ShellConfig{
			Prompt:      "> ",
			HistoryFile: "/tmp/nestkv.history",
			Confirm:     true,
		},
		Bench: BenchConfig{
			Workers:    8,
			Iterations: 1000,
			Keys:       64,
			Seed:       1,
		},
	}
}

func NewTestConfig() *Config {
	return &Config{
		Log: log.Config{
			Level: getLogLevel(),
		},
		Shell: ShellConfig{
			Prompt:  "> ",
			Confirm: false,
		},
		Bench: BenchConfig{
			Workers:    4,
			Iterations: 100,
			Keys:       8,
			Seed:       1,
		},
	}
}

// LoadFile reads a TOML config file on top of the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	conf := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, errors.Annotatef(err, "load config file %s", path)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}
