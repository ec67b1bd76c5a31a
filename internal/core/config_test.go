package core

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0600); err != nil {
		t.Fatalf("error writing test config: %v", err)
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() returned an unexpected error: %v", err)
	}

	want := &Config{LogLevel: "info"}
	want.Crypto.Workers = 1
	want.Files.EncryptedSuffix = ".bf"
	want.Files.DecryptedSuffix = ".out"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() did not apply the defaults; diff:\n%s", diff)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := writeConfigFile(t, `
log_level: debug
log_file_path: /tmp/bfcrypt.log
crypto:
  workers: 8
files:
  encrypted_suffix: .enc
  overwrite: true
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() returned an unexpected error: %v", err)
	}

	want := &Config{LogLevel: "debug", LogFilePath: "/tmp/bfcrypt.log"}
	want.Crypto.Workers = 8
	want.Files.EncryptedSuffix = ".enc"
	want.Files.DecryptedSuffix = ".out"
	want.Files.Overwrite = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() did not read the config file; diff:\n%s", diff)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	dir := writeConfigFile(t, "crypto:\n  workers: 8\n")
	t.Setenv("BFCRYPT_CRYPTO_WORKERS", "3")
	t.Setenv("BFCRYPT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() returned an unexpected error: %v", err)
	}
	if cfg.Crypto.Workers != 3 {
		t.Errorf("expected BFCRYPT_CRYPTO_WORKERS to override the file, got %d workers", cfg.Crypto.Workers)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected BFCRYPT_LOG_LEVEL to override the default, got %s", cfg.LogLevel)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := writeConfigFile(t, "crypto: [unterminated\n")

	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected LoadConfig() to fail on malformed yaml")
	}
}

func TestConfig_WorkerCount(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit", workers: 4, want: 4},
		{name: "zero means one per cpu", workers: 0, want: runtime.NumCPU()},
		{name: "negative means one per cpu", workers: -2, want: runtime.NumCPU()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Crypto.Workers = tt.workers
			if got := cfg.WorkerCount(); got != tt.want {
				t.Errorf("WorkerCount() want = %d, got = %d", tt.want, got)
			}
		})
	}
}
