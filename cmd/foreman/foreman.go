// Package foremancmder
package foremancmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/plantworksco/foreman/cmd/foreman/chat"
	configcmder "github.com/plantworksco/foreman/cmd/foreman/config"
	conversationscmder "github.com/plantworksco/foreman/cmd/foreman/conversations"
	issuescmder "github.com/plantworksco/foreman/cmd/foreman/issues"
	versioncmder "github.com/plantworksco/foreman/cmd/version"
)

const foremanLongDesc string = `Foreman is a terminal client for the plant downtime assistant.

Ask questions about downtime events and get streamed answers:
  foreman chat                 Start an interactive chat session
  foreman conversations        Browse past conversations
  foreman issues               Manage the known-issues knowledge base`

const foremanShortDesc string = "Foreman - Plant Downtime Assistant"

func NewForemanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foreman",
		Short: foremanShortDesc,
		Long:  foremanLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .foreman/ directory location")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(conversationscmder.NewConversationsCmd())
	cmd.AddCommand(issuescmder.NewIssuesCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
