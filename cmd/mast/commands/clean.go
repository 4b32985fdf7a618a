package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Prune superseded backup versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keep, err := cmd.Flags().GetInt("keep")
			if err != nil {
				return err
			}
			return c.app.Clean(keep)
		},
	}
	cmd.Flags().IntP("keep", "k", -1, "Backups to retain per asset (default from config)")
	return cmd
}
