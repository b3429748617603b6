package core

import "github.com/shopspring/decimal"

// Account is the on-chain record for a deployed contract. It is mutable only
// via Migrate (which changes CodeHash) or governance updating Admin.
type Account struct {
	CodeHash Hash  `json:"code_hash"`
	Admin    *Addr `json:"admin,omitempty"`
}

// Config holds chain-level settings, mutable only by Owner via UpdateConfig
// or Configure.
type Config struct {
	Owner    Addr            `json:"owner"`
	Bank     Addr            `json:"bank"`
	Taxman   Addr            `json:"taxman"`
	FeeDenom string          `json:"fee_denom"`
	FeeRate  decimal.Decimal `json:"fee_rate"`
}
