package clicmds

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version information - typically set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
)

func getVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chunkctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chunkctl %s (%s)\n", getVersion(), GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
