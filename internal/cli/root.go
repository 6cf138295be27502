// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/logging"
	"github.com/aidanlsb/automoc/internal/ui"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path
	configPath    string
	verbose       bool

	// Resolved values
	resolvedVaultPath  string
	resolvedConfigPath string
	cfg                *config.Config
	logger             *slog.Logger
)

// errReported marks an error already written as a JSON envelope.
var errReported = errors.New("error reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "automoc",
	Short: "Add missing linked mentions to a markdown note",
	Long: `automoc builds maps of content in a markdown vault.

Given a note, it finds every other note that links to it (or shares a tag or
alias with the one you pick) and appends a link to each one the note does
not link to yet. Links can point at the heading closest to each mention.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(os.Stderr, verbose)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix or remove the config file")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.SetCodeTheme(cfg.UI.CodeTheme)

		// Skip vault resolution for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() != "vault-init" {
			return nil
		}

		return resolveVault()
	},
}

// resolveVault picks the vault: explicit path > named vault > default.
func resolveVault() error {
	var err error
	switch {
	case vaultPathFlag != "":
		resolvedVaultPath = vaultPathFlag
	case vaultName != "":
		resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
		if err != nil {
			return handleError(ErrVaultNotFound, err, "Run 'automoc config show' to see configured vaults")
		}
	default:
		resolvedVaultPath, err = cfg.GetVaultPath("")
		if err != nil {
			return handleErrorMsg(ErrVaultNotSpecified, `no vault specified

Either:
  1. Use --vault <name> (from config)
  2. Use --vault-path /path/to/vault
  3. Set default_vault in ~/.config/automoc/config.toml`, "Run 'automoc config set-vault <name> <path> --default'")
		}
	}

	if st, err := os.Stat(resolvedVaultPath); err != nil || !st.IsDir() {
		return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault not found: %s", resolvedVaultPath), "")
	}
	return nil
}

// Execute runs the CLI. Interrupts cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errReported):
		return err
	default:
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		return err
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug details to stderr")
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, resolvedPath, nil
}

func configFileExists(path string) bool {
	_, err := os.Stat(strings.TrimSpace(path))
	return err == nil
}
