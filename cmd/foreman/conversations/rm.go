package conversationscmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
)

const rmShortDesc string = "Delete one conversation"

func newRmCmd() *cobra.Command {
	cmder := &conversationsCommander{}

	cmd := &cobra.Command{
		Use:     "rm <conversation-id>",
		Short:   rmShortDesc,
		Args:    cobra.ExactArgs(1),
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, sessionID, err := cmder.clientAndSession()
			if err != nil {
				return err
			}

			if err := cliui.Step(os.Stdout, "Deleting conversation", func() error {
				return client.DeleteConversation(cmd.Context(), sessionID, args[0])
			}); err != nil {
				return err
			}

			fmt.Printf("  %s\n", cliui.DimStyle.Render(args[0]))
			return nil
		},
	}

	config.AddStringFlag(cmd, conversationsFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
