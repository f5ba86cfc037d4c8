package conversationscmder

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
)

const clearShortDesc string = "Delete all of this session's conversations"

func newClearCmd() *cobra.Command {
	cmder := &conversationsCommander{}

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   clearShortDesc,
		Args:    cobra.NoArgs,
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, sessionID, err := cmder.clientAndSession()
			if err != nil {
				return err
			}

			return cliui.Step(os.Stdout, "Clearing all conversations", func() error {
				return client.DeleteAllConversations(cmd.Context(), sessionID)
			})
		},
	}

	config.AddStringFlag(cmd, conversationsFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
