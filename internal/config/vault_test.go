package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aidanlsb/automoc/internal/outline"
)

func writeVaultConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, VaultConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestLoadVaultConfig(t *testing.T) {
	t.Run("default config when file missing", func(t *testing.T) {
		cfg, err := LoadVaultConfig(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(cfg, DefaultVaultConfig()) {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		dir := writeVaultConfig(t, "link_to_heading: true\nheading_mode: preceding\nnotices:\n  new_links_added: true\n")

		cfg, err := LoadVaultConfig(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.LinkToHeading {
			t.Error("expected link_to_heading true")
		}
		if cfg.Mode() != outline.NearestPrecedingOnly {
			t.Errorf("expected preceding mode, got %v", cfg.Mode())
		}
		if !cfg.LinkWithAlias {
			t.Error("expected link_with_alias to keep its default")
		}
		if cfg.LinkFormat != FormatWikilink {
			t.Errorf("expected wikilink default, got %q", cfg.LinkFormat)
		}
		if !cfg.Notices.Linking || !cfg.Notices.NoNewLinks || !cfg.Notices.NewLinksAdded {
			t.Errorf("unexpected notices: %+v", cfg.Notices)
		}
	})

	t.Run("invalid enum rejected", func(t *testing.T) {
		dir := writeVaultConfig(t, "import_as_list: numbered\n")
		_, err := LoadVaultConfig(dir)
		if !errors.Is(err, ErrInvalidSetting) {
			t.Fatalf("expected ErrInvalidSetting, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := writeVaultConfig(t, "link_to_heading: [\n")
		if _, err := LoadVaultConfig(dir); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestVaultConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VaultConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*VaultConfig) {}},
		{name: "markdown slug", mutate: func(c *VaultConfig) { c.LinkFormat = FormatMarkdown; c.AnchorStyle = AnchorSlug }},
		{name: "ordered paren", mutate: func(c *VaultConfig) { c.ImportAsList = ListOrdered; c.OrderedListSeparator = ")" }},
		{name: "bad heading mode", mutate: func(c *VaultConfig) { c.HeadingMode = "sideways" }, wantErr: true},
		{name: "bad separator", mutate: func(c *VaultConfig) { c.OrderedListSeparator = "-" }, wantErr: true},
		{name: "bad link format", mutate: func(c *VaultConfig) { c.LinkFormat = "html" }, wantErr: true},
		{name: "bad anchor style", mutate: func(c *VaultConfig) { c.AnchorStyle = "kebab" }, wantErr: true},
		{name: "negative workers", mutate: func(c *VaultConfig) { c.Workers = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultVaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIgnoredFolderList(t *testing.T) {
	cfg := DefaultVaultConfig()
	cfg.IgnoredFolders = "/archive/, templates ,"
	if got, want := cfg.IgnoredFolderList(), []string{"archive", "templates"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IgnoredFolderList() = %v, want %v", got, want)
	}
}

func TestWorkerCount(t *testing.T) {
	cfg := DefaultVaultConfig()
	if cfg.WorkerCount() < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.WorkerCount())
	}
	cfg.Workers = 3
	if cfg.WorkerCount() != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.WorkerCount())
	}
}

func TestCreateDefaultVaultConfig(t *testing.T) {
	dir := t.TempDir()

	created, err := CreateDefaultVaultConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected automoc.yaml to be created")
	}

	cfg, err := LoadVaultConfig(dir)
	if err != nil {
		t.Fatalf("default automoc.yaml should load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultVaultConfig()) {
		t.Errorf("default file should match defaults, got %+v", cfg)
	}

	created, err = CreateDefaultVaultConfig(dir)
	if err != nil || created {
		t.Errorf("expected existing file to be kept, created=%v err=%v", created, err)
	}
}

func TestNoticesEnabled(t *testing.T) {
	n := DefaultVaultConfig().Notices
	tests := []struct {
		event string
		want  bool
	}{
		{"linking", true},
		{"none", true},
		{"added", false},
		{"other", false},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			if got := n.Enabled(tt.event); got != tt.want {
				t.Errorf("Enabled(%q) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}
