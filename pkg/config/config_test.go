package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func chdirT(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
}

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	chdirT(t, t.TempDir())
	viper.Reset()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.DBPath != "./chain-data/state.db" {
		t.Fatalf("expected default db path, got %q", cfg.Storage.DBPath)
	}
	if cfg.Logging.Level != "info" || !cfg.Logging.JSON {
		t.Fatalf("expected default logging settings, got %+v", cfg.Logging)
	}
	if cfg.VM.ModuleCacheSize != 128 || cfg.VM.CallStackLimit != 10 {
		t.Fatalf("expected default vm settings, got %+v", cfg.VM)
	}
}

func TestLoadReadsBaseConfigFile(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "cmd", "chaind", "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	base := []byte("storage:\n  db_path: \"/var/lib/chain/state.db\"\n  prune_interval: 500\n" +
		"logging:\n  level: \"debug\"\n")
	if err := os.WriteFile(filepath.Join(configDir, "default.yaml"), base, 0o600); err != nil {
		t.Fatalf("write default.yaml: %v", err)
	}

	chdirT(t, root)
	viper.Reset()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.DBPath != "/var/lib/chain/state.db" {
		t.Fatalf("expected base config db path, got %q", cfg.Storage.DBPath)
	}
	if cfg.Storage.PruneInterval != 500 {
		t.Fatalf("expected base config prune interval, got %d", cfg.Storage.PruneInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected base config log level, got %q", cfg.Logging.Level)
	}
	// fields absent from the base file still fall back to defaults.
	if cfg.VM.ModuleCacheSize != 128 {
		t.Fatalf("expected default module cache size to survive a partial base file, got %d", cfg.VM.ModuleCacheSize)
	}
}

func TestLoadMergesNamedEnvOverride(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "cmd", "chaind", "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	base := []byte("storage:\n  db_path: \"./chain-data/state.db\"\nlogging:\n  level: \"info\"\n")
	if err := os.WriteFile(filepath.Join(configDir, "default.yaml"), base, 0o600); err != nil {
		t.Fatalf("write default.yaml: %v", err)
	}
	override := []byte("logging:\n  level: \"warn\"\nvm:\n  call_stack_limit: 4\n")
	if err := os.WriteFile(filepath.Join(configDir, "prod.yaml"), override, 0o600); err != nil {
		t.Fatalf("write prod.yaml: %v", err)
	}

	chdirT(t, root)
	viper.Reset()

	cfg, err := Load("prod")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override to win, got %q", cfg.Logging.Level)
	}
	if cfg.VM.CallStackLimit != 4 {
		t.Fatalf("expected env override call stack limit, got %d", cfg.VM.CallStackLimit)
	}
	// base-only fields survive an override file that doesn't mention them.
	if cfg.Storage.DBPath != "./chain-data/state.db" {
		t.Fatalf("expected base db path to survive merge, got %q", cfg.Storage.DBPath)
	}
}

func TestLoadFromEnvUsesChainEnvVariable(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "cmd", "chaind", "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	override := []byte("storage:\n  db_path: \"/custom/path.db\"\n")
	if err := os.WriteFile(filepath.Join(configDir, "staging.yaml"), override, 0o600); err != nil {
		t.Fatalf("write staging.yaml: %v", err)
	}

	chdirT(t, root)
	viper.Reset()
	t.Setenv("CHAIN_ENV", "staging")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("load from env: %v", err)
	}
	if cfg.Storage.DBPath != "/custom/path.db" {
		t.Fatalf("expected CHAIN_ENV=staging override applied, got %q", cfg.Storage.DBPath)
	}
}

func TestLoadAppliesEnvironmentVariableOverride(t *testing.T) {
	chdirT(t, t.TempDir())
	viper.Reset()
	// AutomaticEnv has no key replacer configured, so viper looks up the dotted
	// key as-is, uppercased.
	t.Setenv("LOGGING.LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("expected process environment variable to override default, got %q", cfg.Logging.Level)
	}
}
