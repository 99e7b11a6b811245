package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if got := viper.GetString("default_client"); got != DefaultClient {
		t.Errorf("default_client = %q, want %q", got, DefaultClient)
	}
	if got := viper.GetDuration("network_timeout"); got != 30*time.Second {
		t.Errorf("network_timeout = %v, want 30s", got)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.BackupRetention != 5 {
		t.Errorf("BackupRetention = %d, want 5", cfg.BackupRetention)
	}
	if cfg.SubprocessTimeout != 0 {
		t.Errorf("SubprocessTimeout = %v, want 0", cfg.SubprocessTimeout)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("default_client: cursor\nsubprocess_timeout: 10m\ncatalog_path: ~/catalog.toml\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DefaultClient != "cursor" {
		t.Errorf("DefaultClient = %q, want cursor", cfg.DefaultClient)
	}
	if cfg.SubprocessTimeout != 10*time.Minute {
		t.Errorf("SubprocessTimeout = %v, want 10m", cfg.SubprocessTimeout)
	}
	if cfg.CatalogPath != filepath.Join(dir, "catalog.toml") {
		t.Errorf("CatalogPath = %q, want expanded home", cfg.CatalogPath)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("MCPI_DEFAULT_CLIENT", "cursor")

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultClient != "cursor" {
		t.Errorf("DefaultClient = %q, want cursor from env", cfg.DefaultClient)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	if _, err := Load("/non/existent/path/config.yaml"); err == nil {
		t.Error("Load() with non-existent explicit path should error")
	}
}

func TestValidate(t *testing.T) {
	clients := []string{"claude-code", "cursor"}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr int
	}{
		{"nil", nil, 1},
		{"valid", &Config{Version: 1, DefaultClient: "cursor", BackupRetention: 5}, 0},
		{"bad version", &Config{Version: 0}, 1},
		{"unknown client", &Config{Version: 1, DefaultClient: "vim"}, 1},
		{"negative retention and timeout", &Config{Version: 1, BackupRetention: -1, NetworkTimeout: -time.Second}, 2},
		{"null byte path", &Config{Version: 1, CatalogPath: "a\x00b"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.cfg, clients); len(got) != tt.wantErr {
				t.Errorf("Validate() = %v, want %d errors", got, tt.wantErr)
			}
		})
	}
}

func TestLoadProject(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadProject(t.TempDir())
		if err != nil {
			t.Fatalf("LoadProject() error = %v", err)
		}
		if cfg.DefaultScope != "" || cfg.Path != "" {
			t.Errorf("LoadProject() = %+v, want empty", cfg)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := "default_scope = \"project-mcp\"\ndefault_client = \"claude-code\"\n"
		if err := os.WriteFile(filepath.Join(dir, ".mcpi.toml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadProject(dir)
		if err != nil {
			t.Fatalf("LoadProject() error = %v", err)
		}
		if cfg.DefaultScope != "project-mcp" || cfg.DefaultClient != "claude-code" {
			t.Errorf("LoadProject() = %+v", cfg)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".mcpi.toml"), []byte("defualt_scope = \"x\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadProject(dir); err == nil {
			t.Error("LoadProject() expected error for unknown key")
		}
	})
}
