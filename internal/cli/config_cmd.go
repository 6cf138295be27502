package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/ui"
)

var configSetDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global and vault configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the global configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented global config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.CreateDefaultAt(resolvedConfigPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": resolvedConfigPath, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(resolvedConfigPath)))
		} else {
			fmt.Println(ui.Info("Config already exists: " + resolvedConfigPath))
		}
		return nil
	},
}

var configSetVaultCmd = &cobra.Command{
	Use:   "set-vault <name> <path>",
	Short: "Register a named vault",
	Long: `Adds or updates a named vault in the global config.

Examples:
  automoc config set-vault notes ~/notes --default`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return handleErrorMsg(ErrInvalidInput, "vault name must not be empty", "")
		}
		path := args[1]
		if !strings.HasPrefix(path, "~") {
			abs, err := filepath.Abs(path)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			path = abs
		}

		if cfg.Vaults == nil {
			cfg.Vaults = make(map[string]string)
		}
		cfg.Vaults[name] = path
		if configSetDefault || cfg.DefaultVault == "" {
			cfg.DefaultVault = name
		}
		if err := config.SaveTo(resolvedConfigPath, cfg); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":          name,
				"path":          path,
				"default_vault": cfg.DefaultVault,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Vault %s -> %s", name, ui.FilePath(path)))
		return nil
	},
}

var configVaultInitCmd = &cobra.Command{
	Use:   "vault-init",
	Short: "Create automoc.yaml with default settings in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		created, err := config.CreateDefaultVaultConfig(vaultPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		path := filepath.Join(vaultPath, config.VaultConfigFile)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(path)))
		} else {
			fmt.Println(ui.Info("Vault config already exists: " + path))
		}
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	exists := configFileExists(resolvedConfigPath)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":   resolvedConfigPath,
			"exists":        exists,
			"default_vault": cfg.DefaultVault,
			"vaults":        cfg.Vaults,
			"editor":        cfg.Editor,
			"ui": map[string]string{
				"accent":     cfg.UI.Accent,
				"code_theme": cfg.UI.CodeTheme,
			},
		}, nil)
		return nil
	}

	if !exists {
		fmt.Printf("Config file does not exist: %s\n", resolvedConfigPath)
		fmt.Println("Run 'automoc config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ui.FilePath(resolvedConfigPath))
	if cfg.DefaultVault != "" {
		fmt.Printf("default_vault: %s\n", cfg.DefaultVault)
	}
	if cfg.Editor != "" {
		fmt.Printf("editor: %s\n", cfg.Editor)
	}
	if names := cfg.VaultNames(); len(names) > 0 {
		fmt.Println(ui.Header("vaults:"))
		for _, name := range names {
			marker := " "
			if name == cfg.DefaultVault {
				marker = "*"
			}
			fmt.Printf(" %s %s  %s\n", marker, name, ui.Hint(cfg.Vaults[name]))
		}
	}
	return nil
}

func init() {
	configSetVaultCmd.Flags().BoolVar(&configSetDefault, "default", false, "Make this the default vault")
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetVaultCmd, configVaultInitCmd)
	rootCmd.AddCommand(configCmd)
}
