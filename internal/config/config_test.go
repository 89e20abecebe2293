package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Load config without a config file (use defaults)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Verify some default values
	if cfg.Server.Port != 8092 {
		t.Errorf("Server.Port = %d, want 8092", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}

	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q, want %q", cfg.NATS.URL, "nats://localhost:4222")
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis.URL = %q, want %q", cfg.Redis.URL, "redis://localhost:6379/0")
	}

	if cfg.Lease.TTL != time.Minute {
		t.Errorf("Lease.TTL = %v, want 1m", cfg.Lease.TTL)
	}

	if !cfg.Probe.Enabled {
		t.Error("Probe.Enabled should be true by default")
	}

	if cfg.Probe.Timeout != 10*time.Second {
		t.Errorf("Probe.Timeout = %v, want 10s", cfg.Probe.Timeout)
	}

	if cfg.Queue.Subject != "relay.files.created" {
		t.Errorf("Queue.Subject = %q, want %q", cfg.Queue.Subject, "relay.files.created")
	}

	if cfg.DLQ.Backend != "jetstream" {
		t.Errorf("DLQ.Backend = %q, want %q", cfg.DLQ.Backend, "jetstream")
	}

	if cfg.DLQ.BasePath != "/var/lib/dropgate/dlq" {
		t.Errorf("DLQ.BasePath = %q, want %q", cfg.DLQ.BasePath, "/var/lib/dropgate/dlq")
	}

	if cfg.Auth.Enabled {
		t.Error("Auth.Enabled should be false by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9100
queue:
  subject: relay.uploads
dlq:
  backend: file
  base_path: /tmp/dlq
auth:
  enabled: true
  secret: test-secret
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Queue.Subject != "relay.uploads" {
		t.Errorf("Queue.Subject = %q, want %q", cfg.Queue.Subject, "relay.uploads")
	}
	if cfg.DLQ.Backend != "file" {
		t.Errorf("DLQ.Backend = %q, want %q", cfg.DLQ.Backend, "file")
	}
	if !cfg.Auth.Enabled {
		t.Error("Auth.Enabled should be true from file")
	}
	if cfg.Auth.Secret != "test-secret" {
		t.Errorf("Auth.Secret = %q, want %q", cfg.Auth.Secret, "test-secret")
	}

	// Values the file omits keep their defaults.
	if cfg.Lease.TTL != time.Minute {
		t.Errorf("Lease.TTL = %v, want 1m", cfg.Lease.TTL)
	}
}

func TestLoad_QueueEnvOverride(t *testing.T) {
	t.Setenv("QUEUE", "relay.custom")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Queue.Subject != "relay.custom" {
		t.Errorf("Queue.Subject = %q, want %q", cfg.Queue.Subject, "relay.custom")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// When a specific file path is given and doesn't exist, it should error
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() with non-existent file path should return error")
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("invalid: yaml: : :"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}
