package cmd

import (
	"fmt"

	"ghostsets/internal/versions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare source versions with the game and the local import",
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

		gameVersion, err := a.ddragon.LatestVersion()
		if err != nil {
			return err
		}
		a.log.Debug("Game version", zap.String("version", gameVersion))

		for _, name := range names {
			report, err := versions.Check(name, a.sources[name], gameVersion, a.store)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
