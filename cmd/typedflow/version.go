package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/typedflow/version"
)

func newVersionCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Example: `  typedflow version
  typedflow version --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if flags.output != textFormat {
				return writeStructured(cmd.OutOrStdout(), flags.output, info)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "typedflow %s\n", info.Short())
			fmt.Fprintf(w, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(w, "  built:      %s\n", info.BuildTime)
			fmt.Fprintf(w, "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(w, "  platform:   %s\n", info.Platform)
			return nil
		},
	}
}
