package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"earnings/internal/log"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("EARNINGS_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EARNINGS_TEST_VALUE", "")
	os.Unsetenv("EARNINGS_TEST_VALUE")

	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("EARNINGS_TEST_VALUE"); got != "from-file" {
		t.Errorf("EARNINGS_TEST_VALUE = %q", got)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "99999")
	t.Setenv("CURRENCY", "EUR")

	var buf strings.Builder
	logger := log.NewWriter(&buf, 0, log.ComponentConfig)
	if _, err := LoadAndValidateConfig(logger); err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(buf.String(), "Configuration validation failed") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestGracefulShutdown(t *testing.T) {
	var order []string
	step := func(name string, err error) func(context.Context) error {
		return func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("%s: no deadline", name)
			}
			order = append(order, name)
			return err
		}
	}

	boom := errors.New("boom")
	err := GracefulShutdown(log.Discard(), time.Second, step("http", nil), nil, step("amqp", boom), step("cache", nil))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if strings.Join(order, ",") != "http,amqp,cache" {
		t.Errorf("order = %v", order)
	}

	if err := GracefulShutdown(log.Discard(), time.Second); err != nil {
		t.Errorf("no steps: %v", err)
	}
}
