package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/engine/sim"
	"github.com/rustyeddy/tradeguard/eventlog"
	"github.com/rustyeddy/tradeguard/logger"
	"github.com/rustyeddy/tradeguard/session"
	"github.com/rustyeddy/tradeguard/trade"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted session through the full admission pipeline",
	Long: `Run a small scripted trading session against the in-memory sim engine
using the configured guards, breaker and governance gate. Useful for
checking what a configuration actually allows before wiring a real
engine.

Example:
  tradeguard demo --config tradeguard.yaml`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoConfigPath string

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoConfigPath, "config", "c", "tradeguard.yaml", "path to config file")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(demoConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	var events eventlog.Log = eventlog.NewMemory()
	if cfg.Wallet.EventDBPath != "" {
		el, err := eventlog.NewSQLite(cfg.Wallet.EventDBPath)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer el.Close()
		events = el
	}

	eng := sim.New(10000)
	eng.SetMark("BTCUSDT", 50000)
	eng.SetMark("ETHUSDT", 2500)

	sess, err := session.New(cfg, eng, events, log)
	if err != nil {
		return err
	}

	script := []trade.Operation{
		trade.NewOperation(trade.PlaceOrder, map[string]any{
			"symbol": "BTCUSDT", "side": "long", "usd_size": 1500.0, "leverage": 3.0,
		}),
		trade.NewOperation(trade.PlaceOrder, map[string]any{
			"symbol": "BTCUSDT", "side": "long", "usd_size": 1000.0,
		}),
		trade.NewOperation(trade.AdjustLeverage, map[string]any{
			"symbol": "BTCUSDT", "newLeverage": 5.0,
		}),
		trade.NewOperation(trade.ClosePosition, map[string]any{
			"symbol": "BTCUSDT",
		}),
	}

	ctx := context.Background()
	for i, op := range script {
		res, err := sess.Submit(ctx, op)
		switch {
		case err != nil:
			fmt.Printf("%d. %-14s -> blocked: %v\n", i+1, op.Action, err)
		case !res.Success:
			fmt.Printf("%d. %-14s -> rejected: %s\n", i+1, op.Action, res.Error)
		case res.Order != nil:
			fmt.Printf("%d. %-14s -> %s @ %.2f x %.6f\n",
				i+1, op.Action, res.Order.Status, res.Order.FilledPrice, res.Order.FilledQuantity)
		default:
			fmt.Printf("%d. %-14s -> ok\n", i+1, op.Action)
		}
	}

	s := sess.Wallet().Status()
	fmt.Printf("\nwallet: %d commits, head %s\n", s.Commits, s.Head)
	return nil
}
