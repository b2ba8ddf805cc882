package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name: "Full configuration",
			configPath: writeConfig(t, `
rate: 0.015
terms: [6, 12, 18]
rounding: cents
presentation:
  locale: en-US
  currency: USD
logging:
  level: debug
  format: console
output:
  format: csv
cache:
  enabled: true
  address: localhost:6379
  ttlSeconds: 60
`),
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationValues(t *testing.T) {
	path := writeConfig(t, `
rate: 0.015
terms: [6, 12, 18]
rounding: cents
presentation:
  locale: en-US
  currency: USD
logging:
  level: debug
  format: console
output:
  format: csv
cache:
  enabled: true
  address: localhost:6379
  ttlSeconds: 60
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Rate != 0.015 {
		t.Errorf("Rate = %v, expected 0.015", conf.Rate)
	}
	if len(conf.Terms) != 3 || conf.Terms[0] != 6 || conf.Terms[2] != 18 {
		t.Errorf("Terms = %v, expected [6 12 18]", conf.Terms)
	}
	if conf.Rounding != constants.RoundingCents {
		t.Errorf("Rounding = %q, expected cents", conf.Rounding)
	}
	if conf.Presentation.Locale != "en-US" || conf.Presentation.Currency != "USD" {
		t.Errorf("Presentation = %+v, expected en-US/USD", conf.Presentation)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected csv", conf.Output.Format)
	}
	if !conf.Cache.Enabled || conf.Cache.Address != "localhost:6379" || conf.Cache.TTLSeconds != 60 {
		t.Errorf("Cache = %+v", conf.Cache)
	}
	if err := conf.ValidateConfiguration(); err != nil {
		t.Errorf("ValidateConfiguration() unexpected error = %v", err)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Rate != constants.DefaultPeriodicRate {
		t.Errorf("Rate = %v, expected default %v", conf.Rate, constants.DefaultPeriodicRate)
	}
	expectedTerms := constants.DefaultTerms()
	if len(conf.Terms) != len(expectedTerms) {
		t.Fatalf("Terms = %v, expected %v", conf.Terms, expectedTerms)
	}
	for i := range expectedTerms {
		if conf.Terms[i] != expectedTerms[i] {
			t.Errorf("Terms[%d] = %d, expected %d", i, conf.Terms[i], expectedTerms[i])
		}
	}
	if conf.Rounding != constants.RoundingNone {
		t.Errorf("Rounding = %q, expected none", conf.Rounding)
	}
	if conf.Presentation.Currency != constants.DefaultCurrency {
		t.Errorf("Presentation.Currency = %q, expected %s", conf.Presentation.Currency, constants.DefaultCurrency)
	}
	if conf.Cache.TTLSeconds != constants.DefaultCacheTTLSeconds {
		t.Errorf("Cache.TTLSeconds = %d, expected %d", conf.Cache.TTLSeconds, constants.DefaultCacheTTLSeconds)
	}
}

func TestLoadConfigurationRates(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected float64
	}{
		{name: "Explicit zero rate is kept", yaml: "rate: 0\n", expected: 0},
		{name: "Annual percentage is converted", yaml: "annualRatePercent: 12\n", expected: 0.01},
		{name: "Periodic rate wins over annual", yaml: "rate: 0.02\nannualRatePercent: 12\n", expected: 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			if math.Abs(conf.Rate-tt.expected) > 1e-12 {
				t.Errorf("Rate = %v, expected %v", conf.Rate, tt.expected)
			}
		})
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("LOANCALC_RATE", "0.03")
	t.Setenv("LOANCALC_CACHE_ADDRESS", "redis:6379")

	conf, err := LoadConfigurationFromReader(strings.NewReader("rate: 0.01\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Rate != 0.03 {
		t.Errorf("Rate = %v, expected environment override 0.03", conf.Rate)
	}
	if conf.Cache.Address != "redis:6379" {
		t.Errorf("Cache.Address = %q, expected environment override", conf.Cache.Address)
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("rate: [unterminated\n")); err == nil {
		t.Error("LoadConfigurationFromReader() expected error for malformed YAML")
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Configuration)
		expectErr bool
	}{
		{name: "Defaults are valid", modify: func(c *Configuration) {}, expectErr: false},
		{name: "Zero rate is valid", modify: func(c *Configuration) { c.Rate = 0 }, expectErr: false},
		{name: "Negative rate", modify: func(c *Configuration) { c.Rate = -0.01 }, expectErr: true},
		{name: "No terms", modify: func(c *Configuration) { c.Terms = nil }, expectErr: true},
		{name: "Zero term", modify: func(c *Configuration) { c.Terms = []int{12, 0} }, expectErr: true},
		{name: "Unknown rounding", modify: func(c *Configuration) { c.Rounding = "dimes" }, expectErr: true},
		{name: "Unknown output format", modify: func(c *Configuration) { c.Output.Format = "xml" }, expectErr: true},
		{name: "Cache without address", modify: func(c *Configuration) { c.Cache.Enabled = true }, expectErr: true},
		{
			name: "Cache with address",
			modify: func(c *Configuration) {
				c.Cache.Enabled = true
				c.Cache.Address = "localhost:6379"
			},
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.modify(conf)
			err := conf.ValidateConfiguration()
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateConfiguration() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	conf := Default()
	if warnings := conf.Warnings(); len(warnings) != 0 {
		t.Errorf("Warnings() for defaults = %v, expected none", warnings)
	}

	conf.Terms = []int{24, 12, 12}
	conf.Rate = 0.5
	conf.AnnualRatePercent = 12
	warnings := conf.Warnings()
	// high rate, out of order, duplicate, conflicting rates
	if len(warnings) != 4 {
		t.Errorf("Warnings() returned %d warnings, expected 4: %v", len(warnings), warnings)
	}
}

func TestWarningsEquivalentRates(t *testing.T) {
	conf := Default()
	conf.AnnualRatePercent = 27.23
	// Same rate as annualRatePercent, reached through different float steps.
	conf.Rate = 0.2723 / 12

	if warnings := conf.Warnings(); len(warnings) != 0 {
		t.Errorf("Warnings() = %v, expected none for equivalent rates", warnings)
	}
}
