package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxRequestSize  string               `yaml:"maxRequestSize"`
	ReadTimeout     string               `yaml:"readTimeout"`
	WriteTimeout    string               `yaml:"writeTimeout"`
	ShutdownTimeout string               `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`

	requestSizeBytes int64
	readTimeout      time.Duration
	writeTimeout     time.Duration
	shutdownTimeout  time.Duration
}

// DefaultConfig returns the server configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Address:          constants.DefaultServerAddress,
		MaxRequestSize:   fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes),
		Logging:          config.LoggingConfig{},
		requestSizeBytes: constants.DefaultMaxRequestSizeBytes,
		readTimeout:      defaultReadTimeout,
		writeTimeout:     defaultWriteTimeout,
		shutdownTimeout:  defaultShutdownTimeout,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return c.requestSizeBytes
}

// SetRequestSizeBytes overrides the configured request body limit.
func (c *Config) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.requestSizeBytes = size
		c.MaxRequestSize = fmt.Sprintf("%d", size)
	}
}

// ReadTimeoutDuration returns the parsed read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return c.readTimeout
}

// WriteTimeoutDuration returns the parsed write timeout.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return c.writeTimeout
}

// ShutdownTimeoutDuration returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.shutdownTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	var err error
	if c.readTimeout, err = parseDuration(c.ReadTimeout, defaultReadTimeout); err != nil {
		return err
	}
	if c.writeTimeout, err = parseDuration(c.WriteTimeout, defaultWriteTimeout); err != nil {
		return err
	}
	if c.shutdownTimeout, err = parseDuration(c.ShutdownTimeout, defaultShutdownTimeout); err != nil {
		return err
	}

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxRequestSizeBytes
	}
	c.requestSizeBytes = bytes
	return nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

// sizeUnits maps size suffixes to multipliers, longest suffix first so "KB"
// is tried before "B".
var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"KB", 1 << 10},
	{"MB", 1 << 20},
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"B", 1},
}

// ParseSize converts a request size such as "512", "64K" or "1MB" into
// bytes. Units are binary and case-insensitive; an empty value yields the
// default request size.
func ParseSize(value string) (int64, error) {
	number := strings.ToUpper(strings.TrimSpace(value))
	if number == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	multiplier := int64(1)
	for _, unit := range sizeUnits {
		if trimmed, ok := strings.CutSuffix(number, unit.suffix); ok {
			number, multiplier = strings.TrimSpace(trimmed), unit.multiplier
			break
		}
	}

	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n < 0 || n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size %q out of range", value)
	}
	return n * multiplier, nil
}
