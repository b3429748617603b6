package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerforge/chain/core"
)

func updateConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "replace the chain config wholesale (sender must be config.owner)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			owner, err := parseAddr(cmd, "owner")
			if err != nil {
				return err
			}
			bank, err := parseAddr(cmd, "bank")
			if err != nil {
				return err
			}
			taxman, err := parseAddr(cmd, "taxman")
			if err != nil {
				return err
			}
			feeDenom, err := cmd.Flags().GetString("fee-denom")
			if err != nil {
				return err
			}
			feeRateStr, err := cmd.Flags().GetString("fee-rate")
			if err != nil {
				return err
			}
			feeRate, err := decimal.NewFromString(feeRateStr)
			if err != nil {
				return fmt.Errorf("parse --fee-rate: %w", err)
			}
			msg := core.MsgUpdateConfig{NewConfig: core.Config{
				Owner: owner, Bank: bank, Taxman: taxman, FeeDenom: feeDenom, FeeRate: feeRate,
			}}
			return printTx(cmd, sender, gasLimit, cred, msg)
		},
	}
	cmd.Flags().String("owner", "", "new config owner address (hex)")
	cmd.Flags().String("bank", "", "new bank contract address (hex)")
	cmd.Flags().String("taxman", "", "new taxman contract address (hex)")
	cmd.Flags().String("fee-denom", "", "fee denom")
	cmd.Flags().String("fee-rate", "0", "fee rate (decimal)")
	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "send coins to another account via the bank contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			to, err := parseAddr(cmd, "to")
			if err != nil {
				return err
			}
			coins, err := parseCoins(cmd, "funds")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgTransfer{To: to, Coins: coins})
		},
	}
	cmd.Flags().String("to", "", "recipient address (hex)")
	cmd.Flags().String("funds", "", "coins to send, e.g. \"ugrug:100\"")
	return cmd
}

func readWasm(cmd *cobra.Command) (core.Binary, error) {
	path, err := cmd.Flags().GetString("wasm")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --wasm: %w", err)
	}
	return data, nil
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "upload WASM bytecode, addressed by its sha-256 hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			wasm, err := readWasm(cmd)
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgStoreCode{WasmByteCode: wasm})
		},
	}
	cmd.Flags().String("wasm", "", "path to a compiled .wasm file")
	_ = cmd.MarkFlagRequired("wasm")
	return cmd
}

func instantiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "create a new contract account from previously stored code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			codeHash, err := parseHash(cmd, "code-hash")
			if err != nil {
				return err
			}
			msg, salt, funds, admin, err := instantiateFields(cmd)
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgInstantiate{
				CodeHash: codeHash, Msg: msg, Salt: salt, Funds: funds, Admin: admin,
			})
		},
	}
	addInstantiateFlags(cmd)
	cmd.Flags().String("code-hash", "", "sha-256 hash of previously stored code (hex)")
	_ = cmd.MarkFlagRequired("code-hash")
	return cmd
}

func addInstantiateFlags(cmd *cobra.Command) {
	cmd.Flags().String("msg", "", "instantiate message (hex-encoded payload)")
	cmd.Flags().String("salt", "", "address-derivation salt (hex)")
	cmd.Flags().String("funds", "", "coins to fund the new contract with")
	cmd.Flags().String("admin", "", "migration admin address (hex), omit for none")
}

func instantiateFields(cmd *cobra.Command) (msg, salt core.Binary, funds core.Coins, admin *core.Addr, err error) {
	if msg, err = parseBinary(cmd, "msg"); err != nil {
		return
	}
	if salt, err = parseBinary(cmd, "salt"); err != nil {
		return
	}
	if funds, err = parseCoins(cmd, "funds"); err != nil {
		return
	}
	admin, err = parseOptionalAddr(cmd, "admin")
	return
}

func storeAndInstantiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store-and-instantiate",
		Short: "store WASM bytecode and instantiate it in the same tx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			wasm, err := readWasm(cmd)
			if err != nil {
				return err
			}
			msg, salt, funds, admin, err := instantiateFields(cmd)
			if err != nil {
				return err
			}
			codeHash := core.HashBytes(wasm)
			return printTx(cmd, sender, gasLimit, cred,
				core.MsgStoreCode{WasmByteCode: wasm},
				core.MsgInstantiate{CodeHash: codeHash, Msg: msg, Salt: salt, Funds: funds, Admin: admin},
			)
		},
	}
	cmd.Flags().String("wasm", "", "path to a compiled .wasm file")
	_ = cmd.MarkFlagRequired("wasm")
	addInstantiateFlags(cmd)
	return cmd
}

func executeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "invoke a contract's execute entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			contract, err := parseAddr(cmd, "contract")
			if err != nil {
				return err
			}
			msg, err := parseBinary(cmd, "msg")
			if err != nil {
				return err
			}
			funds, err := parseCoins(cmd, "funds")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgExecute{Contract: contract, Msg: msg, Funds: funds})
		},
	}
	cmd.Flags().String("contract", "", "contract address (hex)")
	cmd.Flags().String("msg", "", "execute message (hex-encoded payload)")
	cmd.Flags().String("funds", "", "coins to attach")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "swap a contract's code hash and run the new code's migrate entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			contract, err := parseAddr(cmd, "contract")
			if err != nil {
				return err
			}
			newCodeHash, err := parseHash(cmd, "new-code-hash")
			if err != nil {
				return err
			}
			msg, err := parseBinary(cmd, "msg")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgMigrate{
				Contract: contract, NewCodeHash: newCodeHash, Msg: msg,
			})
		},
	}
	cmd.Flags().String("contract", "", "contract address (hex)")
	cmd.Flags().String("new-code-hash", "", "new code hash (hex)")
	cmd.Flags().String("msg", "", "migrate message (hex-encoded payload)")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("new-code-hash")
	return cmd
}

func createClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-client",
		Short: "dispatch to an IBC light-client contract's create-client entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			contract, err := parseAddr(cmd, "contract")
			if err != nil {
				return err
			}
			msg, err := parseBinary(cmd, "msg")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgCreateClient{Contract: contract, Msg: msg})
		},
	}
	cmd.Flags().String("contract", "", "light-client contract address (hex)")
	cmd.Flags().String("msg", "", "create-client message (hex-encoded payload)")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func updateClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-client",
		Short: "dispatch to an IBC light-client contract's update-client entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			contract, err := parseAddr(cmd, "contract")
			if err != nil {
				return err
			}
			clientID, err := cmd.Flags().GetString("client-id")
			if err != nil {
				return err
			}
			msg, err := parseBinary(cmd, "msg")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgUpdateClient{
				Contract: contract, ClientID: clientID, Msg: msg,
			})
		},
	}
	cmd.Flags().String("contract", "", "light-client contract address (hex)")
	cmd.Flags().String("client-id", "", "light client identifier")
	cmd.Flags().String("msg", "", "update-client message (hex-encoded payload)")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}

func submitMisbehaviorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-misbehavior",
		Short: "dispatch to an IBC light-client contract's submit-misbehavior entry point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, gasLimit, cred, err := txFlags(cmd)
			if err != nil {
				return err
			}
			contract, err := parseAddr(cmd, "contract")
			if err != nil {
				return err
			}
			clientID, err := cmd.Flags().GetString("client-id")
			if err != nil {
				return err
			}
			msg, err := parseBinary(cmd, "msg")
			if err != nil {
				return err
			}
			return printTx(cmd, sender, gasLimit, cred, core.MsgSubmitMisbehavior{
				Contract: contract, ClientID: clientID, Msg: msg,
			})
		},
	}
	cmd.Flags().String("contract", "", "light-client contract address (hex)")
	cmd.Flags().String("client-id", "", "light client identifier")
	cmd.Flags().String("msg", "", "submit-misbehavior message (hex-encoded payload)")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}
