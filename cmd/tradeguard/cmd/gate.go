package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/eventlog"
	"github.com/rustyeddy/tradeguard/governance"
	"github.com/rustyeddy/tradeguard/logger"
	"github.com/rustyeddy/tradeguard/trade"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Show the release-gate verdict for the configured status file",
	Long: `Read the governance release-gate status file and report whether a live
placeOrder would currently be allowed, warned, or blocked.

Example:
  tradeguard gate --config tradeguard.yaml`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

var gateConfigPath string

func init() {
	rootCmd.AddCommand(gateCmd)
	gateCmd.Flags().StringVarP(&gateConfigPath, "config", "c", "tradeguard.yaml", "path to config file")
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(gateConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	events := eventlog.NewMemory()
	log := logger.New("error")
	gate := governance.NewGate(cfg.Market.Name, cfg.Governance, events, log)

	fmt.Printf("status file: %s\n", cfg.Governance.StatusPath)

	err = gate.Enforce(trade.PlaceOrder, false)
	switch {
	case err != nil:
		fmt.Printf("live placeOrder: BLOCKED\n  %v\n", err)
	case len(events.Entries()) > 0:
		fmt.Println("live placeOrder: allowed with warnings")
		for _, e := range events.Entries() {
			fmt.Printf("  %s: %v\n", e.Type, e.Payload["reason"])
		}
	default:
		fmt.Println("live placeOrder: allowed")
	}
	return nil
}
