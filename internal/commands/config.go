package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/render"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change askchat settings stored in ~/.askchat/config.json.

The ASKCHAT_ENDPOINT environment variable overrides the configured endpoint
and GLAMOUR_STYLE overrides the markdown style.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a single setting",
		Long: fmt.Sprintf(`Change a single setting and save the config file.

Keys: %s
TUI themes: %s
Markdown styles: %s`,
			strings.Join(config.SettableKeys(), ", "),
			strings.Join(render.TUIThemeNames(), ", "),
			strings.Join(render.ThemeNames(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(deps, args[0], args[1])
		},
	})

	return cmd
}

func setConfigValue(deps *Dependencies, key, value string) error {
	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui theme %q (valid: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	cfg, err := config.LoadConfigFile()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, value)
	return nil
}
