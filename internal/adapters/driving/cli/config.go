package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values.

Values live in a TOML file and take effect immediately; a running MCP
server picks up edits without a restart. Secrets are shown masked.

Examples:
  graphseek config list
  graphseek config get search.limit
  graphseek config set search.limit 50
  graphseek config set search.entity_types "driveItem,message"`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	value, err := configService.Get(args[0])
	if err != nil {
		return err
	}

	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	key, value := args[0], args[1]
	if err := configService.Set(key, value); err != nil {
		return err
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	entries := configService.List()

	width := 0
	for _, entry := range entries {
		if len(entry.Key) > width {
			width = len(entry.Key)
		}
	}

	for _, entry := range entries {
		suffix := ""
		if entry.Default {
			suffix = "  (default)"
		}
		cmd.Printf("%-*s  %s%s\n", width, entry.Key, entry.Value, suffix)
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configService.Path())
	return nil
}
