package cmd

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X ...cmd.version=v1.2.3".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the emovox version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("emovox " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
