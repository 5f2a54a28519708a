package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeguard/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Query the audit wallet",
	Long: `Query the hash-linked audit ledger of trading operations.

Subcommands:
  log    - List commits, most recent first
  show   - Show one commit by hash
  status - Show chain head, commit count and last activity

Examples:
  tradeguard wallet log --limit 10
  tradeguard wallet log --symbol BTCUSDT
  tradeguard wallet show <hash>
  tradeguard wallet status`,
}

var walletLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List wallet commits, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runWalletLog,
}

var walletShowCmd = &cobra.Command{
	Use:   "show <hash>",
	Short: "Show one commit by hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletShow,
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chain head and commit count",
	Args:  cobra.NoArgs,
	RunE:  runWalletStatus,
}

var (
	walletDBPath string
	walletLimit  int
	walletSymbol string
)

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletLogCmd)
	walletCmd.AddCommand(walletShowCmd)
	walletCmd.AddCommand(walletStatusCmd)

	walletCmd.PersistentFlags().StringVarP(&walletDBPath, "db", "d", "./wallet.sqlite", "path to wallet SQLite DB")
	walletLogCmd.Flags().IntVarP(&walletLimit, "limit", "n", 20, "max commits to list")
	walletLogCmd.Flags().StringVarP(&walletSymbol, "symbol", "s", "", "only commits touching this symbol")
}

func openWallet() (*wallet.Wallet, *wallet.Store, error) {
	store, err := wallet.NewStore(walletDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	ex, err := store.Load()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load commits: %w", err)
	}
	w, err := wallet.Restore(ex, nil)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("restore wallet: %w", err)
	}
	return w, store, nil
}

func runWalletLog(cmd *cobra.Command, args []string) error {
	w, store, err := openWallet()
	if err != nil {
		return err
	}
	defer store.Close()

	commits := w.Log(walletLimit, walletSymbol)
	if len(commits) == 0 {
		fmt.Println("no commits")
		return nil
	}
	for _, c := range commits {
		fmt.Println(formatCommit(c))
	}
	return nil
}

func runWalletShow(cmd *cobra.Command, args []string) error {
	w, store, err := openWallet()
	if err != nil {
		return err
	}
	defer store.Close()

	c, ok := w.Show(args[0])
	if !ok {
		return fmt.Errorf("commit %q not found", args[0])
	}
	fmt.Println(formatCommit(c))
	fmt.Printf("  parent: %s\n", c.ParentHash)
	for k, v := range c.ResultState {
		fmt.Printf("  %s: %v\n", k, v)
	}
	return nil
}

func runWalletStatus(cmd *cobra.Command, args []string) error {
	w, store, err := openWallet()
	if err != nil {
		return err
	}
	defer store.Close()

	s := w.Status()
	fmt.Printf("commits: %d\n", s.Commits)
	if s.Commits > 0 {
		fmt.Printf("head:    %s\n", s.Head)
		fmt.Printf("last:    %s\n", s.LastActivity.Format(time.RFC3339))
	}
	return nil
}

func formatCommit(c wallet.Commit) string {
	symbol, _ := c.Operation.Symbol()
	return fmt.Sprintf("%s  %s  %-14s %-10s %s",
		c.Hash[:12], c.Time.Format("2006-01-02 15:04:05"), c.Operation.Action, symbol, c.Message)
}
