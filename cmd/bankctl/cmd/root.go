// Package cmd provides the CLI commands for bankctl. Commands carry no
// business logic: they parse input, call the ledger, and print results
// through the format collaborator.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bank-ledger-system/internal/config"
	"github.com/sheikh-saqib/bank-ledger-system/internal/format"
	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/logger"
	boltstore "github.com/sheikh-saqib/bank-ledger-system/internal/storage/bolt"
	jsonstore "github.com/sheikh-saqib/bank-ledger-system/internal/storage/json"
)

var (
	cfg  *config.Config
	log  zerolog.Logger
	fmtr *format.Formatter
)

var rootCmd = &cobra.Command{
	Use:   "bankctl",
	Short: "Manage a file-backed bank account ledger",
	Long: `bankctl operates a small bank ledger: accounts with type-specific
overdraft and minimum-balance rules, PIN-gated deposits, withdrawals and
atomic transfers, monthly interest, and snapshot persistence with rotating
backups.

Configuration comes from BANK_-prefixed environment variables (a .env file
is loaded if present). Run "bankctl console" for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log = logger.New(cfg.LogFormat)
		fmtr, err = format.New(cfg.Currency)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openLedger builds the configured store, loads accounts, and returns the
// ledger with a cleanup func that closes the store.
func openLedger() (*ledger.Ledger, func(), error) {
	var store interfaces.SnapshotStore
	switch cfg.Store {
	case "bolt":
		s, err := boltstore.NewStore(cfg.DataPath, cfg.BackupDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		store = s
	default:
		store = jsonstore.NewStore(cfg.DataPath, cfg.BackupDir)
	}

	led := ledger.New(store, log)
	if err := led.LoadAccounts(context.Background()); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return led, func() { _ = store.Close() }, nil
}
