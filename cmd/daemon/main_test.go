package main

import (
	"testing"

	"github.com/genricoloni/framed/internal/config"
	"go.uber.org/fx"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(AppOptions)
	if err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger verifies the logger configuration
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{name: "production info", cfg: config.LogConfig{Level: "info"}},
		{name: "development debug", cfg: config.LogConfig{Level: "debug", Development: true}},
		{name: "unknown level", cfg: config.LogConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(&config.AppConfig{Log: tt.cfg})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}
			if logger == nil {
				t.Fatal("Logger should not be nil")
			}
			logger.Info("Test logger initialization")
		})
	}
}

// TestEndToEndStartup runs a real startup/stop against a temporary display
// directory and an ephemeral API port
func TestEndToEndStartup(t *testing.T) {
	t.Setenv("FRAMED_HTTP__LISTEN", "127.0.0.1:0")
	t.Setenv("FRAMED_DISPLAY__DIRECTORY", t.TempDir())
	t.Setenv("FRAMED_LOG__LEVEL", "error")

	app := fx.New(
		AppOptions,
		fx.NopLogger, // Silence Fx logs during tests
	)

	if err := app.Start(t.Context()); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}

	if err := app.Stop(t.Context()); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
}
