// Package constants provides shared constants for the loan-calculator application.
package constants

// Rate source defaults
const (
	// DefaultPeriodicRate is the monthly rate, VAT included, applied when the
	// configuration does not override it (2.269226%).
	DefaultPeriodicRate = 0.02269226

	// DefaultPrincipal and DefaultPeriods seed the CLI with the example loan.
	DefaultPrincipal = 50000.0
	DefaultPeriods   = 24
)

// DefaultTerms returns the candidate term lengths, in months, evaluated when
// solving for the principal supported by a payment.
func DefaultTerms() []int {
	return []int{12, 24, 36, 48, 60}
}

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MinorUnitPlaces is the number of decimal places of the currency minor unit
	MinorUnitPlaces = 2

	// HighPeriodicRateThreshold flags a periodic rate that looks like an
	// annual percentage typed into the wrong field.
	HighPeriodicRateThreshold = 0.25

	// MaxPeriods bounds the number of periods accepted from callers (100 years of months)
	MaxPeriods = 1200
)

// Rounding modes
const (
	// RoundingNone keeps raw floating-point results
	RoundingNone = "none"

	// RoundingCents rounds presented amounts to the currency minor unit
	RoundingCents = "cents"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Presentation defaults
const (
	// DefaultLocale is the BCP 47 tag used for currency formatting
	DefaultLocale = "es-MX"

	// DefaultCurrency is the ISO 4217 code used for currency formatting
	DefaultCurrency = "MXN"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides (LOANCALC_RATE, ...)
	EnvPrefix = "LOANCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum size of a JSON request body (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024
)

// Cache defaults
const (
	// DefaultCacheTTLSeconds is how long a cached calculation stays valid
	DefaultCacheTTLSeconds = 3600

	// CacheKeyPrefix namespaces cache entries
	CacheKeyPrefix = "loancalc"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
