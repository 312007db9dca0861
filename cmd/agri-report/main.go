// cmd/agri-report/main.go
package main

import (
	"fmt"
	"os"

	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	verbose    bool
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "agri-report",
		Short: "Build and manage agricultural analytics reports",
		Long: `agri-report runs the report templates served by the worker manager
without a Zeebe broker, and maintains the template registry and the
backing stores the workers write to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: configs/config.yaml lookup)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newRunCmd(opts),
		newTemplatesCmd(opts),
		newRegistryCmd(opts),
		newProvisionCmd(opts),
	)
	return root
}

func (o *globalOptions) logger() logger.Logger {
	if o.verbose {
		return logger.NewFromConfig(config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"})
	}
	return logger.NewFromConfig(config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"})
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
