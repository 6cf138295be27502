package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/automoc/internal/atomicfile"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/paths"
)

// VaultConfigFile is the name of the per-vault settings file.
const VaultConfigFile = "automoc.yaml"

// List styles for inserted link lines.
const (
	ListDisabled  = "disabled"
	ListOrdered   = "ordered"
	ListUnordered = "unordered"
	ListCheckbox  = "checkbox"
)

// Link formats.
const (
	FormatWikilink = "wikilink"
	FormatMarkdown = "markdown"
)

// Markdown heading anchor styles.
const (
	AnchorText = "text"
	AnchorSlug = "slug"
)

// VaultConfig represents vault-level settings from automoc.yaml.
type VaultConfig struct {
	// LinkToHeading links each mention to the heading governing it.
	LinkToHeading bool `yaml:"link_to_heading"`

	// HeadingMode is "nearest" (either direction) or "preceding" (only
	// headings at or above the mention).
	HeadingMode string `yaml:"heading_mode"`

	// LinkWithAlias uses the note's first frontmatter alias as link text.
	LinkWithAlias bool `yaml:"link_with_alias"`

	// ImportAsList is one of disabled, ordered, unordered, checkbox.
	ImportAsList string `yaml:"import_as_list"`

	// OrderedListSeparator is "." or ")".
	OrderedListSeparator string `yaml:"ordered_list_separator"`

	// IgnoredFolders is a comma-separated list of vault folders whose notes
	// are never added.
	IgnoredFolders string `yaml:"ignored_folders"`

	// LinkFormat is wikilink or markdown.
	LinkFormat string `yaml:"link_format"`

	// AnchorStyle controls markdown heading anchors: text (percent-encoded
	// heading) or slug.
	AnchorStyle string `yaml:"anchor_style"`

	// Workers bounds how many notes are read concurrently. 0 means one per CPU.
	Workers int `yaml:"workers"`

	Notices NoticesConfig `yaml:"notices"`
}

// NoticesConfig toggles the status messages printed while running.
type NoticesConfig struct {
	Linking       bool `yaml:"linking"`
	NoNewLinks    bool `yaml:"no_new_links"`
	NewLinksAdded bool `yaml:"new_links_added"`
}

// Enabled reports whether the notice for event ("linking", "added" or
// "none") is turned on.
func (n NoticesConfig) Enabled(event string) bool {
	switch event {
	case "linking":
		return n.Linking
	case "added":
		return n.NewLinksAdded
	case "none":
		return n.NoNewLinks
	default:
		return false
	}
}

// DefaultVaultConfig returns the default vault configuration.
func DefaultVaultConfig() *VaultConfig {
	return &VaultConfig{
		LinkToHeading:        false,
		HeadingMode:          "nearest",
		LinkWithAlias:        true,
		ImportAsList:         ListDisabled,
		OrderedListSeparator: ".",
		LinkFormat:           FormatWikilink,
		AnchorStyle:          AnchorText,
		Notices: NoticesConfig{
			Linking:       true,
			NoNewLinks:    true,
			NewLinksAdded: false,
		},
	}
}

// LoadVaultConfig loads vault configuration from automoc.yaml.
// Returns default config if file doesn't exist. Keys missing from the file
// keep their defaults.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	configPath := filepath.Join(vaultPath, VaultConfigFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultVaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault config %s: %w", configPath, err)
	}

	config := DefaultVaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse vault config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault config %s: %w", configPath, err)
	}
	return config, nil
}

// ErrInvalidSetting is wrapped by every Validate failure.
var ErrInvalidSetting = errors.New("invalid setting")

// Validate rejects unknown enum values and negative worker counts.
func (vc *VaultConfig) Validate() error {
	if _, err := outline.ParseMode(vc.HeadingMode); err != nil {
		return fmt.Errorf("%w: heading_mode: %v", ErrInvalidSetting, err)
	}
	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"import_as_list", vc.ImportAsList, []string{ListDisabled, ListOrdered, ListUnordered, ListCheckbox}},
		{"ordered_list_separator", vc.OrderedListSeparator, []string{".", ")"}},
		{"link_format", vc.LinkFormat, []string{FormatWikilink, FormatMarkdown}},
		{"anchor_style", vc.AnchorStyle, []string{AnchorText, AnchorSlug}},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalidSetting, c.key, c.allowed, c.value)
		}
	}
	if vc.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidSetting)
	}
	return nil
}

// Mode returns the parsed heading mode. Call Validate first.
func (vc *VaultConfig) Mode() outline.Mode {
	mode, _ := outline.ParseMode(vc.HeadingMode)
	return mode
}

// IgnoredFolderList returns the normalized ignored folders.
func (vc *VaultConfig) IgnoredFolderList() []string {
	return paths.ParseIgnoredFolders(vc.IgnoredFolders)
}

// WorkerCount returns the effective number of concurrent note reads.
func (vc *VaultConfig) WorkerCount() int {
	if vc.Workers > 0 {
		return vc.Workers
	}
	return runtime.NumCPU()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const defaultVaultConfig = `# automoc vault settings

# Link each mention to the heading closest to it in the mentioning note.
link_to_heading: false

# nearest   - closest heading above or below the mention
# preceding - closest heading at or above the mention (embeds show the
#             right section)
heading_mode: nearest

# Use the first frontmatter alias of the linked note as link text.
link_with_alias: true

# disabled | ordered | unordered | checkbox
import_as_list: disabled

# "." or ")" after the number of an ordered list item
ordered_list_separator: "."

# Comma-separated folders (from the vault root) whose notes are never added.
ignored_folders: ""

# wikilink ([[Note#Heading|alias]]) or markdown ([alias](Note.md#Heading))
link_format: wikilink

# Markdown heading anchors: text (percent-encoded) or slug
anchor_style: text

# Concurrent note reads; 0 = one per CPU
workers: 0

notices:
  linking: true
  no_new_links: true
  new_links_added: false
`

// CreateDefaultVaultConfig creates a default automoc.yaml file in the vault.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultVaultConfig(vaultPath string) (bool, error) {
	configPath := filepath.Join(vaultPath, VaultConfigFile)

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	if err := atomicfile.WriteFile(configPath, []byte(defaultVaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write vault config: %w", err)
	}
	return true, nil
}
