package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// opPin is shared by the commands that authenticate a single account.
var opPin string

var interestAll bool

var depositCmd = &cobra.Command{
	Use:   "deposit <account-id> <amount>",
	Short: "Deposit into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.Deposit(args[0], amount, opPin); err != nil {
			return err
		}
		acct, err := led.GetAccount(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("deposited %s, balance %s\n", fmtr.Amount(amount), fmtr.Amount(acct.Balance))
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account-id> <amount>",
	Short: "Withdraw from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.Withdraw(args[0], amount, opPin); err != nil {
			return err
		}
		acct, err := led.GetAccount(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("withdrew %s, balance %s\n", fmtr.Amount(amount), fmtr.Amount(acct.Balance))
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <from-id> <to-id> <amount>",
	Short: "Transfer between two accounts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.Transfer(args[0], args[1], amount, opPin); err != nil {
			return err
		}
		fmt.Printf("transferred %s from %s to %s\n", fmtr.Amount(amount), args[0], args[1])
		return nil
	},
}

var interestCmd = &cobra.Command{
	Use:   "interest [account-id]",
	Short: "Apply monthly interest to one account, or to all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if interestAll {
			applied := led.ApplyInterestToAllAccounts()
			fmt.Printf("interest applied to %d account(s)\n", applied)
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("an account id is required unless --all is set")
		}
		if err := led.ApplyMonthlyInterest(args[0], opPin); err != nil {
			return err
		}
		acct, err := led.GetAccount(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("interest applied, balance %s\n", fmtr.Amount(acct.Balance))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{depositCmd, withdrawCmd, transferCmd, interestCmd} {
		c.Flags().StringVar(&opPin, "pin", "", "account pin")
	}
	interestCmd.Flags().BoolVar(&interestAll, "all", false, "apply to every account (no pin needed)")

	rootCmd.AddCommand(depositCmd, withdrawCmd, transferCmd, interestCmd)
}
