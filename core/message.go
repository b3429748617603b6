package core

import "github.com/shopspring/decimal"

// Message is the closed set of state-transition variants the executor
// recognizes (spec §3/§4.6). It is modeled as a sum type via a private
// marker method rather than dispatch through a registry, since the variant
// set is closed and the executor benefits from exhaustive, compile-checked
// switches instead of reflection-based lookup.
type Message interface {
	isMessage()
}

// MsgUpdateConfig replaces the chain config wholesale. Requires
// sender == config.Owner.
type MsgUpdateConfig struct {
	NewConfig Config
}

// MsgConfigure updates only the config fields that are set (non-nil) without
// requiring the caller to resend the whole Config (spec §3's "UpdateConfig /
// Configure").
// Requires sender == config.Owner.
type MsgConfigure struct {
	FeeRate *decimal.Decimal
	Bank    *Addr
	Taxman  *Addr
}

// MsgTransfer sends coins from the sender to to via the bank contract's
// Send entry point.
type MsgTransfer struct {
	To    Addr
	Coins Coins
}

// MsgStoreCode uploads WASM bytecode, addressed by its SHA-256 hash. Fails
// with AlreadyExists if the same code has been stored before.
type MsgStoreCode struct {
	WasmByteCode Binary
}

// MsgInstantiate creates a new contract account at a deterministically
// derived address and runs its instantiate entry point.
type MsgInstantiate struct {
	CodeHash Hash
	Msg      Binary
	Salt     Binary
	Funds    Coins
	Admin    *Addr
}

// MsgExecute invokes a contract's execute entry point.
type MsgExecute struct {
	Contract Addr
	Msg      Binary
	Funds    Coins
}

// MsgMigrate swaps a contract's code hash and runs the new code's migrate
// entry point. Requires sender == account.Admin, and fails if the account
// has no admin.
type MsgMigrate struct {
	Contract    Addr
	NewCodeHash Hash
	Msg         Binary
}

// MsgCreateClient, MsgUpdateClient and MsgSubmitMisbehavior route to an IBC
// light-client contract's corresponding entry point, exactly like Execute
// with a fixed method name. The client contracts' own business logic is out
// of scope here (spec §2 Non-goals); the core only needs to dispatch to them
// deterministically.
type MsgCreateClient struct {
	Contract Addr
	Msg      Binary
}

type MsgUpdateClient struct {
	Contract Addr
	ClientID string
	Msg      Binary
}

type MsgSubmitMisbehavior struct {
	Contract Addr
	ClientID string
	Msg      Binary
}

func (MsgUpdateConfig) isMessage()       {}
func (MsgConfigure) isMessage()          {}
func (MsgTransfer) isMessage()           {}
func (MsgStoreCode) isMessage()          {}
func (MsgInstantiate) isMessage()        {}
func (MsgExecute) isMessage()            {}
func (MsgMigrate) isMessage()            {}
func (MsgCreateClient) isMessage()       {}
func (MsgUpdateClient) isMessage()       {}
func (MsgSubmitMisbehavior) isMessage()  {}

// Event is a single attribute-bag emitted by a message or sub-message
// handler, surfaced in TxOutcome.Events for observability.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Response is what a message handler (built-in or contract) returns: zero or
// more sub-messages to run depth-first before the handler's own effects are
// considered final, plus free-form attributes and opaque data.
type Response struct {
	Msgs       []SubMessage `json:"msgs,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Data       Binary       `json:"data,omitempty"`
}

// SubMessage is a contract-issued follow-up call, executed in its own
// sub-cache so that a failure can be discarded without touching the
// parent's effects (spec §4.6, "processed depth-first in declaration
// order, each in its own sub-cache").
type SubMessage struct {
	Msg Message
}
