package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		conf      config.LoggingConfig
		override  string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "Defaults", wantLevel: zapcore.InfoLevel},
		{name: "Config level", conf: config.LoggingConfig{Level: "error"}, wantLevel: zapcore.ErrorLevel},
		{name: "Override wins", conf: config.LoggingConfig{Level: "error"}, override: "debug", wantLevel: zapcore.DebugLevel},
		{name: "Warning alias", conf: config.LoggingConfig{Level: "warning"}, wantLevel: zapcore.WarnLevel},
		{name: "Console format", conf: config.LoggingConfig{Format: "console"}, wantLevel: zapcore.InfoLevel},
		{name: "Invalid level", conf: config.LoggingConfig{Level: "verbose"}, wantErr: true},
		{name: "Invalid format", conf: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.conf, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level %v to be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loan-calculator.log")

	logger, err := initializeLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}
