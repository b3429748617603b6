package core

import "testing"

func TestParseCoinsRoundTrip(t *testing.T) {
	c, err := ParseCoins("ugrug:100,uatom:5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := c.String(); got != "uatom:5,ugrug:100" {
		t.Fatalf("expected sorted canonical form, got %q", got)
	}
}

func TestParseCoinsEmpty(t *testing.T) {
	c, err := ParseCoins("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !c.IsZero() {
		t.Fatalf("expected empty Coins to be zero")
	}
}

func TestParseCoinsRejectsNegative(t *testing.T) {
	if _, err := ParseCoins("ugrug:-1"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestParseCoinsRejectsMalformed(t *testing.T) {
	cases := []string{"ugrug", "ugrug:", ":5", "ugrug:abc"}
	for _, s := range cases {
		if _, err := ParseCoins(s); err == nil {
			t.Fatalf("expected error for malformed coins string %q", s)
		}
	}
}

func TestCoinsAmountOfAbsentDenom(t *testing.T) {
	c, _ := ParseCoins("ugrug:10")
	if got := c.AmountOf("missing"); !got.IsZero() {
		t.Fatalf("expected zero for absent denom, got %s", got)
	}
}

func TestCoinsJSONRoundTrip(t *testing.T) {
	c, _ := ParseCoins("ugrug:100,uatom:5")
	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Coins
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != c.String() {
		t.Fatalf("round trip mismatch: got %q, want %q", back.String(), c.String())
	}
}
