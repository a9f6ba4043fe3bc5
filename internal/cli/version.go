package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"magpie/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := buildinfo.Version
		if version == "" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			} else {
				version = "dev"
			}
		}
		fmt.Printf("mgp %s\n", version)
		if buildinfo.Commit != "" {
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		}
		if buildinfo.Date != "" {
			fmt.Printf("built: %s\n", buildinfo.Date)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
