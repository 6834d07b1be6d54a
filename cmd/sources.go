package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and their imported versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		names, err := a.selected()
		if err != nil {
			return err
		}

		imported, err := a.store.All()
		if err != nil {
			return err
		}

		for _, name := range names {
			version := imported[name]
			if version == "" {
				version = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, version)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sourcesCmd)
}
