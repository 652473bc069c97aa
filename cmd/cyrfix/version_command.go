package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/cyrfix"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := cyrfix.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cyrfix %s\n", info.Version)
			fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", info.BuildTime)
			fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
			return nil
		},
	}
}
