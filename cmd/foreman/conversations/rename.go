package conversationscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
)

const renameShortDesc string = "Rename a conversation"

func newRenameCmd() *cobra.Command {
	cmder := &conversationsCommander{}

	cmd := &cobra.Command{
		Use:     "rename <conversation-id> <title>",
		Short:   renameShortDesc,
		Args:    cobra.ExactArgs(2),
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sessionID, err := cmder.clientAndSession()
			if err != nil {
				return err
			}

			if err := client.RenameConversation(cmd.Context(), sessionID, args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("  %s Renamed %s to %s\n",
				cliui.SuccessMark,
				cliui.DimStyle.Render(args[0]),
				cliui.TitleStyle.Render(args[1]),
			)
			return nil
		},
	}

	config.AddStringFlag(cmd, conversationsFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
