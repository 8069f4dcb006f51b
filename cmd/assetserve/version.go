package main

import (
	"github.com/spf13/cobra"

	"github.com/assetserve/assetserve/server/version"
)

func createVersionCmd() *cobra.Command {
	var fullOutput bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print assetserve version",
		Run: func(cmd *cobra.Command, args []string) {
			if fullOutput {
				version.PrintFull()
			} else {
				version.Print()
			}
		},
	}

	versionCmd.PersistentFlags().BoolVar(&fullOutput, "full", false, "Print full version information")

	return versionCmd
}
