// Command aromactl inspects the purchase spreadsheet from a terminal: the
// rows as the bot sees them, a member's totals and an offline order draft.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
