package issuescmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
	"github.com/plantworksco/foreman/pkg/utils"
)

const listShortDesc string = "List known issues"

func newListCmd() *cobra.Command {
	cmder := &issuesCommander{}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   listShortDesc,
		Args:    cobra.NoArgs,
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues, err := cmder.client().ListKnownIssues(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println()
			if len(issues) == 0 {
				fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No known issues recorded."))
				return nil
			}

			for _, issue := range issues {
				fmt.Printf("  %s %s %s\n",
					cliui.IDStyle.Render(fmt.Sprintf("#%d", issue.ID)),
					cliui.TitleStyle.Render(issue.Title),
					cliui.DimStyle.Render("by "+issue.Author),
				)
				fmt.Printf("     %s\n", utils.Truncate(issue.Description, 100))
				if issue.Solution != "" {
					fmt.Printf("     %s %s\n",
						cliui.KeyStyle.Render("fix:"),
						utils.Truncate(issue.Solution, 100),
					)
				}
				fmt.Println()
			}

			return nil
		},
	}

	config.AddStringFlag(cmd, issuesFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
