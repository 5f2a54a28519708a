package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradeguard",
	Short: "Trade-safety admission control for autonomous trading agents",
	Long: `Tradeguard sits between a trading agent and the exchange and decides
which instructions are allowed through.

It provides:
  - Pluggable policy guards (position size, leverage, cooldown, whitelist)
  - A daily-loss circuit breaker with a time-boxed halt
  - An externally governed release gate for live trading
  - A hash-linked, append-only audit wallet

Complete documentation is available at https://github.com/rustyeddy/tradeguard`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
