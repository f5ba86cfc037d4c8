// Package conversationscmder provides the conversations command for browsing
// and managing a session's conversation history.
package conversationscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/config"
	"github.com/plantworksco/foreman/pkg/dotdir"
)

const conversationsLongDesc string = `Browse this session's conversations in an interactive terminal UI.

Use j/k to move, Enter to read a conversation, d to delete it, and q to quit.

Subcommands manage conversations without the UI:
  foreman conversations rm <conversation-id>   Delete one conversation
  foreman conversations clear                  Delete all conversations
  foreman conversations rename <id> <title>    Rename a conversation

Examples:
  foreman conversations
  foreman conversations rm 8f2c1b
  foreman conversations clear`

const conversationsShortDesc string = "Browse and manage conversations"

func NewConversationsCmd() *cobra.Command {
	cmder := &conversationsCommander{}

	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"convos"},
		Short:   conversationsShortDesc,
		Long:    conversationsLongDesc,
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.runTUI(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, conversationsFlags, config.FlagAPITarget, &cmder.apiTarget)

	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newRenameCmd())

	return cmd
}

type conversationsCommander struct {
	apiTarget string
	configDir string
}

var conversationsFlags = config.FlagSet{
	config.FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "Assistant service URL",
	},
}

func (c *conversationsCommander) preRun(cmd *cobra.Command, _ []string) error {
	c.configDir, _ = cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, conversationsFlags, []string{config.FlagAPITarget})

	c.apiTarget = v.GetString("client.api_target")
	return nil
}

// clientAndSession resolves the API client and the persisted session id.
func (c *conversationsCommander) clientAndSession() (*agent.Client, string, error) {
	session, err := dotdir.NewManager().LoadOrCreateSession(c.configDir)
	if err != nil {
		return nil, "", fmt.Errorf("loading session: %w", err)
	}
	return agent.NewClient(c.apiTarget), session.SessionID, nil
}
