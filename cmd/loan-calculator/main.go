package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/loan-calculator/internal/cache"
	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/server"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand needs once the root command has loaded
// configuration and logging.
type app struct {
	configPath   string
	logLevel     string
	outputFormat string

	// openCache builds the result cache; replaced in tests.
	openCache func(context.Context, *zap.Logger, config.CacheConfig) (cache.Cache, func() error)

	conf      *config.Configuration
	logger    *zap.Logger
	store     cache.Cache
	closeFn   func() error
	formatter *format.Formatter
}

func main() {
	cmd, a := newRootCmd()
	if err := execute(cmd, a); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and then releases the cache and flushes the logger,
// whether or not the command failed.
func execute(cmd *cobra.Command, a *app) error {
	defer a.teardown()
	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{openCache: newCache}

	cmd := &cobra.Command{
		Use:          "loan-calculator",
		Short:        "Fixed-rate loan payments, amortization schedules and term comparisons",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")

	cmd.AddCommand(newScheduleCmd(a), newCompareCmd(a), newServeCmd(a), newVersionCmd())
	return cmd, a
}

func (a *app) setup(ctx context.Context) error {
	conf, err := loadConfiguration(a.configPath)
	if err != nil {
		return err
	}
	if err := conf.ValidateConfiguration(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.Warnings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if a.outputFormat == "" {
		a.outputFormat = conf.Output.Format
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		return err
	}

	formatter, err := format.NewFormatter(conf.Presentation.Locale, conf.Presentation.Currency)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	store, closeFn := a.openCache(ctx, logger, conf.Cache)

	a.conf = conf
	a.logger = logger
	a.store = store
	a.closeFn = closeFn
	a.formatter = formatter
	return nil
}

func (a *app) teardown() {
	if a.closeFn != nil {
		if err := a.closeFn(); err != nil {
			a.logger.Warn("failed to close cache", zap.String("op", "main"), zap.Error(err))
		}
		a.closeFn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) calculator() *calculator.Calculator {
	return calculator.New(a.logger, *a.conf, a.store)
}

// loadConfiguration reads path, falling back to built-in defaults when the
// default config file is absent.
func loadConfiguration(path string) (*config.Configuration, error) {
	if path == constants.DefaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

// newCache returns the Redis cache when enabled and reachable. A process
// that cannot reach Redis runs uncached rather than failing.
func newCache(ctx context.Context, logger *zap.Logger, conf config.CacheConfig) (cache.Cache, func() error) {
	if !conf.Enabled {
		return nil, nil
	}

	redisCache := cache.NewRedisCache(cache.RedisOptions{
		Address:  conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
		TTL:      time.Duration(conf.TTLSeconds) * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis cache unavailable, continuing without cache",
			zap.String("op", "main"),
			zap.String("address", conf.Address),
			zap.Error(err),
		)
		_ = redisCache.Close()
		return nil, nil
	}

	logger.Info("redis cache connected",
		zap.String("op", "main"),
		zap.String("address", conf.Address),
	)
	return redisCache, redisCache.Close
}

func newScheduleCmd(a *app) *cobra.Command {
	var principal float64
	var periods int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the payment and amortization schedule for a principal and term",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.calculator().Calculate(cmd.Context(), calculator.Request{
				Mode:      calculator.ModeAmount,
				Principal: principal,
				Periods:   periods,
			})
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), a.outputFormat, result, a.formatter)
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", constants.DefaultPrincipal, "loan principal")
	cmd.Flags().IntVar(&periods, "periods", constants.DefaultPeriods, "number of monthly periods")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var payment float64
	var terms string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the principal a payment supports across candidate terms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseTerms(terms)
			if err != nil {
				return err
			}
			result, err := a.calculator().Calculate(cmd.Context(), calculator.Request{
				Mode:    calculator.ModePayment,
				Payment: payment,
				Terms:   parsed,
			})
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), a.outputFormat, result, a.formatter)
		},
	}

	cmd.Flags().Float64Var(&payment, "payment", 0, "monthly payment")
	cmd.Flags().StringVar(&terms, "terms", "", "comma-separated terms in months (default from configuration)")
	_ = cmd.MarkFlagRequired("payment")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var serverConfigPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverConfig, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}

			logger := a.logger
			if serverConfig.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(serverConfig.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			calc := calculator.New(logger, *a.conf, a.store)
			handler := server.NewHandler(logger, calc, serverConfig.RequestSizeBytes(), version)
			return server.ListenAndServe(ctx, logger, serverConfig, handler)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// parseTerms parses a comma-separated list of months. An empty string yields
// nil so the configured terms apply.
func parseTerms(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	terms := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number of months", validation.ErrInvalidTerms, part)
		}
		terms = append(terms, n)
	}
	return terms, nil
}
