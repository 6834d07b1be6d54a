package cmd

import (
	"fmt"
	"os"

	"ghostsets/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envDir      string
	sourceNames []string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ghostsets",
	Short: "Import League of Legends item sets from build statistics sites",
	Long: `ghostsets fetches the most played and the highest win rate builds and skill
orders for every champion and role, and writes them as item sets the League
client shows in its shop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "info", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envDir, "env", ".", "directory containing the .env file")
	RootCmd.PersistentFlags().StringSliceVarP(&sourceNames, "source", "s", nil, "sources to use (default: all configured)")
}
