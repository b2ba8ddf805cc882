package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Calculator is the part of calculator.Calculator the handler needs.
type Calculator interface {
	Calculate(ctx context.Context, req calculator.Request) (calculator.Result, error)
	Rate() float64
	Terms() []int
}

type handler struct {
	logger         *zap.Logger
	calc           Calculator
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the amortization API.
func NewHandler(logger *zap.Logger, calc Calculator, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, calc: calc, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Generic endpoint taking the mode in the body
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Payment from principal and term
	mux.HandleFunc("/api/amortization/amount", h.handleMode(calculator.ModeAmount))

	// Principal from payment over the candidate terms
	mux.HandleFunc("/api/amortization/payment", h.handleMode(calculator.ModePayment))

	// Rate source metadata
	mux.HandleFunc("/api/config", h.handleConfig)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculationResponse struct {
	calculator.Result
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

type configResponse struct {
	Rate  float64 `json:"rate"`
	Terms []int   `json:"terms"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, "", "server.handleCalculate")
}

func (h *handler) handleMode(mode calculator.Mode) http.HandlerFunc {
	op := "server.handleMode." + string(mode)
	return func(w http.ResponseWriter, r *http.Request) {
		h.calculate(w, r, mode, op)
	}
}

// calculate decodes a request body and runs it. A non-empty mode overrides
// whatever mode the body carries.
func (h *handler) calculate(w http.ResponseWriter, r *http.Request, mode calculator.Mode, op string) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req calculator.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		if errors.Is(err, io.EOF) {
			h.respondErrorWithOp(w, http.StatusBadRequest, "missing request body", op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}
	if mode != "" {
		req.Mode = mode
	}

	result, err := h.calc.Calculate(r.Context(), req)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("calculation completed",
		zap.String("op", op),
		zap.String("mode", string(result.Mode)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculationResponse{
		Result:   result,
		CSV:      output.CsvString(result),
		Duration: elapsed.String(),
	})
}

// statusFor maps input-provider rejections to 400 and anything else to 500.
func statusFor(err error) int {
	for _, inputErr := range []error{
		validation.ErrInvalidPrincipal,
		validation.ErrInvalidPeriods,
		validation.ErrInvalidPayment,
		validation.ErrInvalidTerms,
		calculator.ErrUnknownMode,
	} {
		if errors.Is(err, inputErr) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, configResponse{
		Rate:  h.calc.Rate(),
		Terms: h.calc.Terms(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// ListenAndServe runs handler on cfg.Address until ctx is cancelled, then
// shuts down gracefully within the configured timeout.
func ListenAndServe(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.ListenAndServe"),
			zap.String("address", cfg.Address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server",
		zap.String("op", "server.ListenAndServe"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
