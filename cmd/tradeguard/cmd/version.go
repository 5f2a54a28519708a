package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradeguard version %s\n", version)
		fmt.Println("Trade-safety admission control for autonomous trading agents")
		fmt.Println("https://github.com/rustyeddy/tradeguard")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
