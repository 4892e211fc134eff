package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session with autosave running",
	Long: `console keeps one ledger open, reads commands from stdin and prints
results. The periodic autosave job runs for the whole session; state is
saved a final time on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()

		led.StartAutoSave(cfg.AutoSaveInterval)
		defer led.StopAutoSave()

		fmt.Println(`bank ledger console, type "help" for commands`)
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			if fields[0] == "exit" || fields[0] == "quit" {
				break
			}
			if err := runConsoleCommand(led, fields); err != nil {
				fmt.Println("error:", err)
			}
		}
		return led.SaveAccounts(context.Background())
	},
}

func runConsoleCommand(led *ledger.Ledger, fields []string) error {
	switch fields[0] {
	case "help":
		fmt.Println(consoleHelp)
	case "list":
		for _, acct := range led.GetAllAccounts() {
			fmt.Printf("%s  %-10s %-20s %s\n", acct.ID, acct.Type, acct.Name, fmtr.Amount(acct.Balance))
		}
	case "create": // create <name> <pin> [type]
		if len(fields) < 3 {
			return fmt.Errorf("usage: create <name> <pin> [type]")
		}
		typ := models.Savings
		if len(fields) > 3 {
			typ = models.AccountType(fields[3])
		}
		acct, err := led.CreateAccount(ledger.CreateAccountParams{Name: fields[1], PIN: fields[2], Type: typ})
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", acct.ID, acct.Type)
	case "summary": // summary <id>
		if len(fields) != 2 {
			return fmt.Errorf("usage: summary <id>")
		}
		s, err := led.AccountSummary(fields[1])
		if err != nil {
			return err
		}
		fmt.Println(fmtr.Summary(s))
	case "history": // history <id>
		if len(fields) != 2 {
			return fmt.Errorf("usage: history <id>")
		}
		txs, err := led.TransactionHistory(fields[1], nil, nil)
		if err != nil {
			return err
		}
		fmt.Println(fmtr.History(txs))
	case "deposit": // deposit <id> <amount> <pin>
		return moneyOp(fields, "deposit", led.Deposit)
	case "withdraw": // withdraw <id> <amount> <pin>
		return moneyOp(fields, "withdraw", led.Withdraw)
	case "transfer": // transfer <from> <to> <amount> <pin>
		if len(fields) != 5 {
			return fmt.Errorf("usage: transfer <from> <to> <amount> <pin>")
		}
		amount, err := decimal.NewFromString(fields[3])
		if err != nil {
			return fmt.Errorf("invalid amount %q", fields[3])
		}
		if err := led.Transfer(fields[1], fields[2], amount, fields[4]); err != nil {
			return err
		}
		fmt.Println("transfer complete")
	case "convert": // convert <id> <type> <pin>
		if len(fields) != 4 {
			return fmt.Errorf("usage: convert <id> <type> <pin>")
		}
		if err := led.ConvertAccountType(fields[1], models.AccountType(fields[2]), fields[3]); err != nil {
			return err
		}
		fmt.Println("converted")
	case "pin": // pin <id> <current> <new>
		if len(fields) != 4 {
			return fmt.Errorf("usage: pin <id> <current> <new>")
		}
		if err := led.ChangePin(fields[1], fields[2], fields[3]); err != nil {
			return err
		}
		fmt.Println("pin changed")
	case "interest": // interest <id> <pin>
		if len(fields) != 3 {
			return fmt.Errorf("usage: interest <id> <pin>")
		}
		if err := led.ApplyMonthlyInterest(fields[1], fields[2]); err != nil {
			return err
		}
		fmt.Println("interest applied")
	case "interest-all":
		fmt.Printf("interest applied to %d account(s)\n", led.ApplyInterestToAllAccounts())
	case "backup":
		name, err := led.CreateBackup()
		if err != nil {
			return err
		}
		fmt.Println(name)
	case "backups":
		names, err := led.GetAvailableBackups()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
	case "restore": // restore <backup-name>
		if len(fields) != 2 {
			return fmt.Errorf("usage: restore <backup-name>")
		}
		if err := led.RestoreFromBackup(fields[1]); err != nil {
			return err
		}
		fmt.Println("restored")
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

func moneyOp(fields []string, name string, op func(string, decimal.Decimal, string) error) error {
	if len(fields) != 4 {
		return fmt.Errorf("usage: %s <id> <amount> <pin>", name)
	}
	amount, err := decimal.NewFromString(fields[2])
	if err != nil {
		return fmt.Errorf("invalid amount %q", fields[2])
	}
	if err := op(fields[1], amount, fields[3]); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

const consoleHelp = `commands:
  list                                 all accounts
  create <name> <pin> [type]           new account (Savings, Cheque, Business)
  summary <id>                         account summary
  history <id>                         transactions, newest first
  deposit <id> <amount> <pin>
  withdraw <id> <amount> <pin>
  transfer <from> <to> <amount> <pin>
  convert <id> <type> <pin>
  pin <id> <current> <new>
  interest <id> <pin>                  monthly interest for one account
  interest-all                         monthly interest batch
  backup | backups | restore <name>
  exit`

func init() {
	rootCmd.AddCommand(consoleCmd)
}
