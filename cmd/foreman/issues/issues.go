// Package issuescmder provides the issues command for managing the
// known-issues knowledge base the assistant consults.
package issuescmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/config"
)

const issuesLongDesc string = `Manage the known-issues knowledge base.

Known issues are operator-curated records of recurring problems and their
fixes. The assistant consults them when answering downtime questions, so a
well-maintained list directly improves answer quality.

Examples:
  foreman issues list
  foreman issues add --title "boiler trip" --description "pressure spike on B2" --solution "reset relief valve" --author maria
  foreman issues rm 7`

const issuesShortDesc string = "Manage the known-issues knowledge base"

func NewIssuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: issuesShortDesc,
		Long:  issuesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRmCmd())

	return cmd
}

type issuesCommander struct {
	apiTarget string
}

var issuesFlags = config.FlagSet{
	config.FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "Assistant service URL",
	},
}

func (c *issuesCommander) preRun(cmd *cobra.Command, _ []string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, issuesFlags, []string{config.FlagAPITarget})

	c.apiTarget = v.GetString("client.api_target")
	return nil
}

func (c *issuesCommander) client() *agent.Client {
	return agent.NewClient(c.apiTarget)
}
