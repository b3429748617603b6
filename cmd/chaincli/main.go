// Command chaincli builds signed Tx values for every message variant in
// spec.md §6 and prints their canonical JSON wire form to stdout.
// Broadcasting is explicitly out of scope (spec §1 Non-goals): the CLI's
// terminal action is serialization, not network I/O, matching the teacher's
// own "contractops" subcommand grouping in cmd/cli/contract_management.go.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "chaincli",
		Short: "build and print signed transactions for the chain's message set",
	}
	root.PersistentFlags().String("sender", "", "hex-encoded sender address (required)")
	root.PersistentFlags().Uint64("gas-limit", 200_000, "tx gas limit")
	root.PersistentFlags().String("credential", "", "hex-encoded authentication credential")
	_ = root.MarkPersistentFlagRequired("sender")

	root.AddCommand(
		updateConfigCmd(),
		transferCmd(),
		storeCmd(),
		instantiateCmd(),
		storeAndInstantiateCmd(),
		executeCmd(),
		migrateCmd(),
		createClientCmd(),
		updateClientCmd(),
		submitMisbehaviorCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
