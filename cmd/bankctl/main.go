package main

import (
	"os"

	"github.com/sheikh-saqib/bank-ledger-system/cmd/bankctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
