package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestConfigGetVaultPath(t *testing.T) {
	cfg := &Config{
		DefaultVault: "personal",
		Vaults: map[string]string{
			"work":     "/path/to/work",
			"personal": "/path/to/personal",
		},
	}

	tests := []struct {
		name    string
		vault   string
		want    string
		wantErr string
	}{
		{name: "named vault", vault: "work", want: "/path/to/work"},
		{name: "default vault", vault: "", want: "/path/to/personal"},
		{name: "unknown vault", vault: "missing", wantErr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.GetVaultPath(tt.vault)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("no default configured", func(t *testing.T) {
		if _, err := (&Config{}).GetVaultPath(""); err == nil {
			t.Fatal("expected error when no default vault is configured")
		}
	})

	t.Run("expands home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		cfg := &Config{Vaults: map[string]string{"notes": "~/notes"}}

		got, err := cfg.GetVaultPath("notes")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, "notes"); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

func TestVaultNames(t *testing.T) {
	cfg := &Config{Vaults: map[string]string{"b": "/b", "a": "/a", "c": "/c"}}
	if got, want := cfg.VaultNames(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("VaultNames() = %v, want %v", got, want)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultVault != "" || len(cfg.Vaults) != 0 {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("parses vaults and ui", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `default_vault = "work"
editor = "nvim"

[vaults]
work = "/notes/work"

[ui]
accent = "39"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultVault != "work" || cfg.Editor != "nvim" || cfg.UI.Accent != "39" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.Vaults["work"] != "/notes/work" {
			t.Errorf("expected work vault, got %v", cfg.Vaults)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("default_vault = [unterminated"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("/tmp/explicit.toml"); got != "/tmp/explicit.toml" {
		t.Errorf("expected explicit path, got %q", got)
	}
	if got := ResolveConfigPath("  "); got != DefaultPath() {
		t.Errorf("expected default path, got %q", got)
	}
}

func TestCreateDefaultAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	created, err := CreateDefaultAt(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected file to be created")
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if cfg.DefaultVault != "" {
		t.Errorf("expected commented-out default vault, got %q", cfg.DefaultVault)
	}

	created, err = CreateDefaultAt(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing file to be left alone")
	}
}
