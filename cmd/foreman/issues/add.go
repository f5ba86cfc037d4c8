package issuescmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
)

const addShortDesc string = "Record a new known issue"

func newAddCmd() *cobra.Command {
	cmder := &issuesCommander{}
	issue := agent.KnownIssue{}

	cmd := &cobra.Command{
		Use:     "add",
		Short:   addShortDesc,
		Args:    cobra.NoArgs,
		PreRunE: cmder.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if issue.Title == "" {
				return errors.New("--title is required")
			}

			created, err := cmder.client().AddKnownIssue(cmd.Context(), issue)
			if err != nil {
				return err
			}

			fmt.Printf("  %s Recorded %s %s\n",
				cliui.SuccessMark,
				cliui.IDStyle.Render(fmt.Sprintf("#%d", created.ID)),
				cliui.TitleStyle.Render(created.Title),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&issue.Title, "title", "t", "", "Short issue title")
	cmd.Flags().StringVar(&issue.Description, "description", "", "What goes wrong")
	cmd.Flags().StringVar(&issue.Solution, "solution", "", "How to fix it")
	cmd.Flags().StringVar(&issue.Author, "author", "", "Who recorded the issue")
	config.AddStringFlag(cmd, issuesFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}
