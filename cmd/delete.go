package cmd

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove item sets written by each source",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		providers, err := a.providers()
		if err != nil {
			return err
		}

		for _, p := range providers {
			p.Progress = cmd.OutOrStdout()
			if err := p.Delete(); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deleteCmd)
}
