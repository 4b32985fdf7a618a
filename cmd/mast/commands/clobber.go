package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newClobberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clobber",
		Short: "Delete the entire output directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Clobber()
		},
	}
}
