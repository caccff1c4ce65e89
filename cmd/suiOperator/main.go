package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sui-operator",
		Usage: "Sign and submit Sui transactions from the command line",
		Description: `A client for a Sui fullnode gateway.

Accounts come from the Sui CLI keystore or a hex secret key. Transactions are
built by the fullnode (unsafe_* methods), signed locally and executed.`,
		Version:  "1.0.0",
		Flags:    globalFlags,
		Commands: commands,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
