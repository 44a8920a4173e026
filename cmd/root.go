package cmd

import (
	"fmt"
	"os"

	"countrypulse/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "countrypulse",
	Short: "Country Pulse Service",
	Long: `Country Pulse reconciles a country registry with exchange-rate data
into a queryable dataset with derived GDP estimates and a rendered summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console/debug config so CLI errors come out readable with
		// ISO8601 timestamps instead of the production JSON encoding.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
