package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
)

var (
	createName string
	createPin  string
	createType string

	historyFrom string
	historyTo   string

	pinCurrent string
	pinNew     string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		acct, err := led.CreateAccount(ledger.CreateAccountParams{
			Name: createName,
			PIN:  createPin,
			Type: models.AccountType(createType),
		})
		if err != nil {
			return err
		}
		fmt.Printf("created account %s (%s, %s)\n", acct.ID, acct.Name, acct.Type)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		for _, acct := range led.GetAllAccounts() {
			fmt.Printf("%s  %-10s %-20s %s\n", acct.ID, acct.Type, acct.Name, fmtr.Amount(acct.Balance))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <account-id>",
	Short: "Show an account summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		summary, err := led.AccountSummary(args[0])
		if err != nil {
			return err
		}
		fmt.Println(fmtr.Summary(summary))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <account-id>",
	Short: "Show transaction history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDateFlag(historyFrom)
		if err != nil {
			return err
		}
		end, err := parseDateFlag(historyTo)
		if err != nil {
			return err
		}
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		txs, err := led.TransactionHistory(args[0], start, end)
		if err != nil {
			return err
		}
		fmt.Println(fmtr.History(txs))
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <account-id> <type>",
	Short: "Convert an account to a different type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.ConvertAccountType(args[0], models.AccountType(args[1]), opPin); err != nil {
			return err
		}
		fmt.Printf("account %s is now a %s account\n", args[0], args[1])
		return nil
	},
}

var changePinCmd = &cobra.Command{
	Use:   "change-pin <account-id>",
	Short: "Change an account PIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.ChangePin(args[0], pinCurrent, pinNew); err != nil {
			return err
		}
		fmt.Println("pin changed")
		return nil
	},
}

// parseDateFlag accepts a bare date or an RFC 3339 timestamp; an empty flag
// means no bound.
func parseDateFlag(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want 2006-01-02 or RFC 3339)", v)
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "account holder name")
	createCmd.Flags().StringVar(&createPin, "pin", "", "4-digit pin")
	createCmd.Flags().StringVar(&createType, "type", "Savings", "account type (Savings, Cheque, Business)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("pin")

	historyCmd.Flags().StringVar(&historyFrom, "from", "", "start of the window, inclusive")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "end of the window, inclusive")

	convertCmd.Flags().StringVar(&opPin, "pin", "", "account pin")
	_ = convertCmd.MarkFlagRequired("pin")

	changePinCmd.Flags().StringVar(&pinCurrent, "current", "", "current pin")
	changePinCmd.Flags().StringVar(&pinNew, "new", "", "new 4-digit pin")
	_ = changePinCmd.MarkFlagRequired("current")
	_ = changePinCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(createCmd, listCmd, showCmd, historyCmd, convertCmd, changePinCmd)
}
