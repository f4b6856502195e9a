package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/config"
	"github.com/assetmirror/assetmirror/pkg/errors"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and initialize assetmirror configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration as YAML",
		RunE:  runConfigShow,
	}
}

func runConfigShow(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := cfg.ToYAML()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Write the default configuration to the config path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func runConfigInit(force bool) error {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = defaultPath
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.Wrapf(errors.ErrConfigFileExists, "%s", configPath)
	}

	if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
		return err
	}

	logger.Successf("wrote default configuration to %s", configPath)
	return nil
}
