// Package configcmder provides the config command for managing persistent
// foreman configuration stored in the .foreman/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent foreman configuration.

Configuration is stored as config.toml in the .foreman/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, chat.model_id, chat.word_wrap

Use subcommands to get, set, or list configuration values:
  foreman config set <key> <value>    Set a configuration value
  foreman config get <key>            Get a configuration value
  foreman config list                 List all configuration values

Examples:
  foreman config set client.api_target http://agent.plant.internal:8000
  foreman config set chat.model_id gpt-4o-mini
  foreman config get client.api_target
  foreman config list`

const configShortDesc string = "Manage persistent foreman configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
