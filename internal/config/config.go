// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	// Rate is the periodic (monthly) interest rate as a fraction.
	Rate float64 `mapstructure:"rate" yaml:"rate"`
	// AnnualRatePercent is converted into Rate when Rate is not given.
	AnnualRatePercent float64            `mapstructure:"annualRatePercent" yaml:"annualRatePercent,omitempty"`
	Terms             []int              `mapstructure:"terms" yaml:"terms"`
	Rounding          string             `mapstructure:"rounding" yaml:"rounding"`
	Presentation      PresentationConfig `mapstructure:"presentation" yaml:"presentation"`
	Logging           LoggingConfig      `mapstructure:"logging" yaml:"logging,omitempty"`
	Output            OutputConfig       `mapstructure:"output" yaml:"output,omitempty"`
	Cache             CacheConfig        `mapstructure:"cache" yaml:"cache,omitempty"`
}

// PresentationConfig holds currency display options
type PresentationConfig struct {
	Locale   string `mapstructure:"locale" yaml:"locale"`     // BCP 47, e.g. es-MX
	Currency string `mapstructure:"currency" yaml:"currency"` // ISO 4217, e.g. MXN
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// CacheConfig holds the optional Redis result cache settings
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Address    string `mapstructure:"address" yaml:"address,omitempty"`
	Password   string `mapstructure:"password" yaml:"password,omitempty"`
	DB         int    `mapstructure:"db" yaml:"db,omitempty"`
	TTLSeconds int    `mapstructure:"ttlSeconds" yaml:"ttlSeconds,omitempty"`
}

// rateTolerance absorbs float error when comparing a rate with one derived
// from annualRatePercent.
const rateTolerance = 1e-12

// Default returns the configuration used when no file is provided.
func Default() *Configuration {
	return &Configuration{
		Rate:     constants.DefaultPeriodicRate,
		Terms:    constants.DefaultTerms(),
		Rounding: constants.RoundingNone,
		Presentation: PresentationConfig{
			Locale:   constants.DefaultLocale,
			Currency: constants.DefaultCurrency,
		},
		Cache: CacheConfig{
			TTLSeconds: constants.DefaultCacheTTLSeconds,
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so environment overrides
	// must be bound explicitly.
	for _, key := range []string{
		"rate", "annualRatePercent", "rounding",
		"presentation.locale", "presentation.currency",
		"logging.level", "logging.format", "logging.outputFile",
		"output.format",
		"cache.enabled", "cache.address", "cache.password", "cache.db", "cache.ttlSeconds",
	} {
		_ = v.BindEnv(key)
	}

	defaults := Default()
	v.SetDefault("terms", defaults.Terms)
	v.SetDefault("rounding", defaults.Rounding)
	v.SetDefault("presentation.locale", defaults.Presentation.Locale)
	v.SetDefault("presentation.currency", defaults.Presentation.Currency)
	v.SetDefault("cache.ttlSeconds", defaults.Cache.TTLSeconds)

	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	// rate has no viper default so an explicit zero rate stays zero.
	if !v.IsSet("rate") {
		if configuration.AnnualRatePercent != 0 {
			configuration.Rate = mathutil.PeriodicRate(configuration.AnnualRatePercent)
		} else {
			configuration.Rate = constants.DefaultPeriodicRate
		}
	}

	return &configuration, nil
}

// ValidateConfiguration returns an error for settings the calculator cannot
// run with.
func (c *Configuration) ValidateConfiguration() error {
	if err := validation.ValidateRate(c.Rate); err != nil {
		return err
	}
	if err := validation.ValidateTerms(c.Terms); err != nil {
		return err
	}
	if err := validation.ValidateRounding(c.Rounding); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Address) == "" {
		return fmt.Errorf("cache is enabled but no address is configured")
	}
	return nil
}

// Warnings returns human-readable notes about settings that are accepted
// but probably unintended.
func (c *Configuration) Warnings() []string {
	var warnings []string
	warnings = append(warnings, validation.RateWarnings(c.Rate)...)
	warnings = append(warnings, validation.TermWarnings(c.Terms)...)
	if c.AnnualRatePercent != 0 && !mathutil.WithinTolerance(c.Rate, mathutil.PeriodicRate(c.AnnualRatePercent), rateTolerance) {
		warnings = append(warnings, fmt.Sprintf("Both rate and annualRatePercent are set; using rate %.8f", c.Rate))
	}
	return warnings
}
