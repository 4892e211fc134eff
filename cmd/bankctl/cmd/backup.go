package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage snapshot backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a timestamped backup and prune old ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		name, err := led.CreateBackup()
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		names, err := led.GetAvailableBackups()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no backups")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-name>",
	Short: "Replace the current state with a backup and re-persist it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, done, err := openLedger()
		if err != nil {
			return err
		}
		defer done()
		if err := led.RestoreFromBackup(args[0]); err != nil {
			return err
		}
		fmt.Printf("restored from %s\n", args[0])
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}
