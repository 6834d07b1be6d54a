package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace item sets with the newest data from each source",
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
			start := time.Now()
			if err := p.Import(); err != nil {
				return err
			}
			a.log.Info("Import finished",
				zap.String("source", p.Name),
				zap.Duration("took", time.Since(start)),
			)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)
}
