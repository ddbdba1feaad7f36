package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errUnknownConfigKey = errors.New("unknown config key")

// configKeys lists the keys the config command manages.
var configKeys = []string{"cookie", "output", "verbose"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigListCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Show a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !knownConfigKey(key) {
				return fmt.Errorf("%w: %s", errUnknownConfigKey, key)
			}

			fmt.Println(viper.GetString(key))

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !knownConfigKey(key) {
				return fmt.Errorf("%w: %s", errUnknownConfigKey, key)
			}

			viper.Set(key, value)

			if err := viper.WriteConfig(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("%s = %s\n", key, value)

			return nil
		},
	}
}

func newConfigListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{}

			for _, key := range configKeys {
				value := viper.GetString(key)
				if key == "cookie" && value != "" {
					value = "(set)"
				}

				values[key] = value
			}

			return renderOutput(values, func() error {
				for _, key := range configKeys {
					fmt.Printf("%s = %s\n", key, values[key])
				}

				return nil
			})
		},
	}
}

func knownConfigKey(key string) bool {
	for _, known := range configKeys {
		if key == known {
			return true
		}
	}

	return false
}
