package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/typedflow/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	output     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "typedflow",
		Short: "Typed key/value stores and processing pipelines",
		Long: `typedflow keeps values of a single type per store and runs chains of
typed processors over them.

Serve the HTTP API with "typedflow serve", or run a pipeline once with
"typedflow run text|numeric <values...>".`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return checkFormat(flags.output)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Config file (default: ./config.yml)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", textFormat, "Output format (text, json, yaml)")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newServeCmd(flags), newRunCmd(flags), newVersionCmd(flags))
	return root
}
