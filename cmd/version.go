package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luma/rcon/internal/meta"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",

	Run: func(cmd *cobra.Command, args []string) {
		info := meta.GetInfo()

		fmt.Fprintf(cmd.OutOrStdout(), "rcon %s (%s, %s)\n", info.Version, info.Build, info.Platform)
		fmt.Fprintf(cmd.OutOrStdout(), "built %s from %s with %s\n", info.BuildTime, info.Branch, info.GoVersion)
	},
}
