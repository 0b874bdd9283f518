package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sublime-migrate/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sublime-migrate",
	Short: "Sublime Security configuration migration tool",
	Long: `sublime-migrate copies configuration (actions, lists, exclusions, feeds,
rules and their associations) from one Sublime Security instance to another.
It can also list, compare and verify instances.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globals are the persistent flags shared by every command.
var globals struct {
	format       string
	outputFile   string
	logLevel     string
	apiKey       string
	region       string
	sourceAPIKey string
	sourceRegion string
	destAPIKey   string
	destRegion   string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		// Report with the standard logger in console format, as a CLI user expects.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&globals.format, "format", "", "Output format (table, json, yaml, markdown)")
	f.StringVarP(&globals.outputFile, "output", "o", "", "Write markdown output to this file")
	f.StringVar(&globals.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&globals.apiKey, "api-key", "", "API key of the instance (single-instance commands)")
	f.StringVar(&globals.region, "region", "", "Region of the instance (single-instance commands)")
	f.StringVar(&globals.sourceAPIKey, "source-api-key", "", "API key for the source instance")
	f.StringVar(&globals.sourceRegion, "source-region", "", "Region of the source instance")
	f.StringVar(&globals.destAPIKey, "dest-api-key", "", "API key for the destination instance")
	f.StringVar(&globals.destRegion, "dest-region", "", "Region of the destination instance")
}
