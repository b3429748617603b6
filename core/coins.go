package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Coins is a mapping denom -> amount, positive amounts only; absent denoms
// mean zero. Amounts are arbitrary-precision decimals (encoded as strings on
// the wire) rather than uint64/float so that chains can define arbitrarily
// large token supplies without overflow.
type Coins map[string]decimal.Decimal

// NewCoins returns an empty Coins value.
func NewCoins() Coins { return make(Coins) }

// ParseCoins parses the canonical wire form "d1:n1,d2:n2,...". An empty
// string parses to an empty Coins value.
func ParseCoins(s string) (Coins, error) {
	c := NewCoins()
	s = strings.TrimSpace(s)
	if s == "" {
		return c, nil
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, InvalidInput(fmt.Sprintf("bad coins segment %q", part))
		}
		denom := strings.TrimSpace(kv[0])
		if denom == "" {
			return nil, InvalidInput("empty denom in coins string")
		}
		amt, err := decimal.NewFromString(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, InvalidInput(fmt.Sprintf("bad amount for denom %q: %v", denom, err))
		}
		if amt.IsNegative() {
			return nil, InvalidInput(fmt.Sprintf("negative amount for denom %q", denom))
		}
		if !amt.IsZero() {
			c[denom] = amt
		}
	}
	return c, nil
}

// String renders Coins in canonical form: sorted by denom, zero amounts
// omitted.
func (c Coins) String() string {
	denoms := c.sortedDenoms()
	parts := make([]string, 0, len(denoms))
	for _, d := range denoms {
		parts = append(parts, fmt.Sprintf("%s:%s", d, c[d].String()))
	}
	return strings.Join(parts, ",")
}

func (c Coins) sortedDenoms() []string {
	denoms := make([]string, 0, len(c))
	for d, amt := range c {
		if amt.IsZero() {
			continue
		}
		denoms = append(denoms, d)
	}
	sort.Strings(denoms)
	return denoms
}

// AmountOf returns the amount of the given denom, or zero if absent.
func (c Coins) AmountOf(denom string) decimal.Decimal {
	if amt, ok := c[denom]; ok {
		return amt
	}
	return decimal.Zero
}

// IsZero reports whether every denom in c has a zero amount.
func (c Coins) IsZero() bool {
	for _, amt := range c {
		if !amt.IsZero() {
			return false
		}
	}
	return true
}

// One returns a single-denom Coins value.
func One(denom string, amount decimal.Decimal) Coins {
	c := NewCoins()
	if !amount.IsZero() {
		c[denom] = amount
	}
	return c
}

// MarshalJSON encodes Coins canonically as a sorted array of {denom,amount}.
func (c Coins) MarshalJSON() ([]byte, error) {
	type coin struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}
	denoms := c.sortedDenoms()
	out := make([]coin, 0, len(denoms))
	for _, d := range denoms {
		out = append(out, coin{Denom: d, Amount: c[d].String()})
	}
	return json.Marshal(out)
}

func (c *Coins) UnmarshalJSON(data []byte) error {
	type coin struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}
	var in []coin
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := NewCoins()
	for _, item := range in {
		amt, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return InvalidInput(fmt.Sprintf("bad coin amount %q: %v", item.Amount, err))
		}
		if amt.IsNegative() {
			return InvalidInput(fmt.Sprintf("negative amount for denom %q", item.Denom))
		}
		if !amt.IsZero() {
			out[item.Denom] = amt
		}
	}
	*c = out
	return nil
}
