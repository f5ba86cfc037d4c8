package issuescmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
)

const rmShortDesc string = "Delete a known issue by id"

func newRmCmd() *cobra.Command {
	cmder := &issuesCommander{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   rmShortDesc,
		Args:    cobra.ExactArgs(1),
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue id %q: %w", args[0], err)
			}

			if err := cmder.client().DeleteKnownIssue(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("  %s Deleted %s\n", cliui.SuccessMark, cliui.IDStyle.Render("#"+args[0]))
			return nil
		},
	}

	config.AddStringFlag(cmd, issuesFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
