package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"admin-password-reset/config"
	"admin-password-reset/database"
	"admin-password-reset/reset"
)

var resetEnvKeys = []string{
	"MONGODB_URL", "DATABASE_URL", "DATABASE_NAME", "USERS_COLLECTION",
	"RESET_USERNAME", "NEW_PASSWORD", "CONNECT_TIMEOUT", "BCRYPT_COST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range resetEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func stubConnect(t *testing.T, fn func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)) {
	t.Helper()
	original := connect
	connect = fn
	t.Cleanup(func() { connect = original })
}

func failOnConnect(t *testing.T) {
	stubConnect(t, func(context.Context, string, time.Duration) (*mongo.Client, error) {
		t.Error("no database connection should be attempted")
		return nil, errors.New("unexpected connect")
	})
}

func nonTerminalStdin(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func missingEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestRun_PlaceholderURLMakesNoConnection(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URL", "mongodb+srv://...")
	t.Setenv("NEW_PASSWORD", "AdminSecure123!")
	failOnConnect(t)

	var out bytes.Buffer
	code := run(context.Background(), missingEnvFile(t), nonTerminalStdin(t), &out)
	if code != exitConfig {
		t.Fatalf("exit code = %d, want %d; output:\n%s", code, exitConfig, out.String())
	}
	if !strings.Contains(out.String(), "placeholder") {
		t.Fatalf("expected placeholder message, got:\n%s", out.String())
	}
}

func TestRun_MissingPasswordFailsClosed(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017/esg_dashboard")
	failOnConnect(t)

	var out bytes.Buffer
	if code := run(context.Background(), missingEnvFile(t), nonTerminalStdin(t), &out); code != exitConfig {
		t.Fatalf("exit code = %d, want %d", code, exitConfig)
	}
}

func TestRun_ConnectFailureReportsHints(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEW_PASSWORD", "AdminSecure123!")
	var gotURI string
	var gotTimeout time.Duration
	stubConnect(t, func(_ context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
		gotURI, gotTimeout = uri, timeout
		return nil, fmt.Errorf("%w: server selection timeout", database.ErrConnect)
	})

	args := append(missingEnvFile(t), "-url", "mongodb://db.internal:27017/esg", "-timeout", "2s")
	var out bytes.Buffer
	code := run(context.Background(), args, nonTerminalStdin(t), &out)
	if code != exitConnect {
		t.Fatalf("exit code = %d, want %d", code, exitConnect)
	}
	if gotURI != "mongodb://db.internal:27017/esg" || gotTimeout != 2*time.Second {
		t.Fatalf("flags not applied: uri=%q timeout=%s", gotURI, gotTimeout)
	}
	if !strings.Contains(out.String(), "Common issues") {
		t.Fatalf("expected remediation hints, got:\n%s", out.String())
	}
}

func TestRun_LoadsDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "MONGODB_URL=mongodb://<user>:<password>@localhost/esg\nNEW_PASSWORD=AdminSecure123!\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	failOnConnect(t)

	var out bytes.Buffer
	if code := run(context.Background(), []string{"-env-file", envFile}, nonTerminalStdin(t), &out); code != exitConfig {
		t.Fatalf("exit code = %d, want %d (placeholder from .env should be rejected)", code, exitConfig)
	}
}

func TestRun_Version(t *testing.T) {
	failOnConnect(t)
	var out bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, nonTerminalStdin(t), &out); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "admin-password-reset") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017/esg")
	t.Setenv("CONNECT_TIMEOUT", "750ms")
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabaseURL != "mongodb://localhost:27017/esg" {
		t.Errorf("DATABASE_URL fallback not used: %q", cfg.DatabaseURL)
	}
	if cfg.Username != config.DefaultUsername || cfg.GetCollectionName() != config.DefaultCollectionName {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ConnectTimeout != 750*time.Millisecond || cfg.BcryptCost != 10 {
		t.Errorf("unexpected timeout/cost: %s/%d", cfg.ConnectTimeout, cfg.BcryptCost)
	}

	t.Setenv("CONNECT_TIMEOUT", "soon")
	if _, err := LoadConfig(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bad timeout, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("%w: bad url", config.ErrInvalidConfig), exitConfig},
		{fmt.Errorf("%w: timeout", database.ErrConnect), exitConnect},
		{&reset.StepError{Step: reset.StepLookup, Err: reset.ErrUserNotFound}, exitNotFound},
		{&reset.StepError{Step: reset.StepConfirm, Err: reset.ErrCancelled}, exitCancelled},
		{&reset.StepError{Step: reset.StepConfirm, Err: context.Canceled}, exitCancelled},
		{&reset.StepError{Step: reset.StepUpdate, Err: reset.ErrNoChanges}, exitNoChanges},
		{&reset.StepError{Step: reset.StepVerify, Err: reset.ErrVerificationFailed}, exitVerification},
		{&reset.StepError{Step: reset.StepUpdate, Err: errors.New("write concern error")}, exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestReport_HintsForDriverErrors(t *testing.T) {
	var out bytes.Buffer
	code := report(&out, &reset.StepError{Step: reset.StepLookup, Err: errors.New("connection(cluster0:27017) incomplete read")})
	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(out.String(), "Common issues") {
		t.Fatalf("expected remediation hints for a lookup driver error, got:\n%s", out.String())
	}

	out.Reset()
	report(&out, fmt.Errorf("%w: bad url", config.ErrInvalidConfig))
	if strings.Contains(out.String(), "Common issues") {
		t.Fatalf("configuration errors should not print connectivity hints:\n%s", out.String())
	}
}
