package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerforge/chain/core"
)

// txFlags reads the persistent --sender/--gas-limit/--credential flags
// shared by every subcommand.
func txFlags(cmd *cobra.Command) (core.Addr, uint64, core.Binary, error) {
	senderHex, err := cmd.Flags().GetString("sender")
	if err != nil {
		return core.Addr{}, 0, nil, err
	}
	sender, err := core.ParseAddr(senderHex)
	if err != nil {
		return core.Addr{}, 0, nil, err
	}
	gasLimit, err := cmd.Flags().GetUint64("gas-limit")
	if err != nil {
		return core.Addr{}, 0, nil, err
	}
	credHex, err := cmd.Flags().GetString("credential")
	if err != nil {
		return core.Addr{}, 0, nil, err
	}
	var cred core.Binary
	if credHex != "" {
		cred, err = hex.DecodeString(credHex)
		if err != nil {
			return core.Addr{}, 0, nil, fmt.Errorf("decode --credential: %w", err)
		}
	}
	return sender, gasLimit, cred, nil
}

// printTx builds a Tx carrying msgs in order and writes its canonical JSON to
// stdout, the CLI's terminal action (spec §4.11).
func printTx(cmd *cobra.Command, sender core.Addr, gasLimit uint64, cred core.Binary, msgs ...core.Message) error {
	tx := core.Tx{Sender: sender, GasLimit: gasLimit, Msgs: msgs, Credential: cred}
	if err := tx.Validate(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func parseAddr(cmd *cobra.Command, flag string) (core.Addr, error) {
	s, err := cmd.Flags().GetString(flag)
	if err != nil {
		return core.Addr{}, err
	}
	return core.ParseAddr(s)
}

func parseOptionalAddr(cmd *cobra.Command, flag string) (*core.Addr, error) {
	s, err := cmd.Flags().GetString(flag)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	a, err := core.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func parseHash(cmd *cobra.Command, flag string) (core.Hash, error) {
	s, err := cmd.Flags().GetString(flag)
	if err != nil {
		return core.Hash{}, err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return core.Hash{}, fmt.Errorf("decode --%s: %w", flag, err)
	}
	if len(b) != core.HashLength {
		return core.Hash{}, fmt.Errorf("--%s must be %d bytes, got %d", flag, core.HashLength, len(b))
	}
	var h core.Hash
	copy(h[:], b)
	return h, nil
}

func parseCoins(cmd *cobra.Command, flag string) (core.Coins, error) {
	s, err := cmd.Flags().GetString(flag)
	if err != nil {
		return nil, err
	}
	return core.ParseCoins(s)
}

func parseBinary(cmd *cobra.Command, flag string) (core.Binary, error) {
	s, err := cmd.Flags().GetString(flag)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode --%s: %w", flag, err)
	}
	return b, nil
}
