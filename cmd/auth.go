package cmd

import (
	"fmt"

	"sublime-migrate/core/api"
	"sublime-migrate/core/output"
	"sublime-migrate/feature/orchestrator"

	"github.com/spf13/cobra"
)

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication and connection commands",
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that an API key is valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		c, err := api.New(rt.cfg.Source, api.Source)
		if err != nil {
			return rt.fail(err)
		}

		me, err := orchestrator.Verify(cmd.Context(), c)
		if err != nil {
			return rt.finish(output.Failed("Authentication failed: "+api.Describe(err), "", nil))
		}
		account := orchestrator.Account{Region: c.Region(), Me: me}
		return rt.finish(output.Succeeded("Authentication successful",
			account, fmt.Sprintf("Connected to: %s", c.Region().Description)))
	},
}

// RegionTable lists the platform regions.
type RegionTable []api.Region

func (t RegionTable) Sections() []output.Section {
	sec := output.Section{Title: "Available Regions", Headers: []string{"Code", "Description", "URL"}}
	for _, r := range t {
		sec.Rows = append(sec.Rows, []string{r.Code, r.Description, r.BaseURL})
	}
	return []output.Section{sec}
}

var authRegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List available regions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		regions := api.Regions()
		return rt.finish(output.Succeeded(fmt.Sprintf("%d regions available", len(regions)), RegionTable(regions), ""))
	},
}

func init() {
	RootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authVerifyCmd, authRegionsCmd)
}
