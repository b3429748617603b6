package core

import "testing"

func TestDeriveContractAddrIsDeterministicAndSaltSensitive(t *testing.T) {
	creator := Addr{1, 2, 3}
	codeHash := HashBytes([]byte("wasm bytes"))

	a1 := DeriveContractAddr(creator, codeHash, []byte("salt-a"))
	a2 := DeriveContractAddr(creator, codeHash, []byte("salt-a"))
	if a1 != a2 {
		t.Fatalf("expected deterministic derivation, got %s != %s", a1, a2)
	}

	a3 := DeriveContractAddr(creator, codeHash, []byte("salt-b"))
	if a1 == a3 {
		t.Fatalf("expected different salts to derive different addresses")
	}

	other := Addr{9, 9, 9}
	a4 := DeriveContractAddr(other, codeHash, []byte("salt-a"))
	if a1 == a4 {
		t.Fatalf("expected different creators to derive different addresses")
	}
}

func TestAddrHexRoundTrip(t *testing.T) {
	a, err := ParseAddr("0102030000000000000000000000000000000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != "0102030000000000000000000000000000000000" {
		t.Fatalf("got %s", a.String())
	}
}

func TestParseAddrRejectsWrongLength(t *testing.T) {
	if _, err := ParseAddr("0102"); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestAddrJSONRoundTrip(t *testing.T) {
	a := Addr{1, 2, 3}
	data, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Addr
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != a {
		t.Fatalf("round trip mismatch: got %v, want %v", back, a)
	}
}

func TestHashJSONRoundTrip(t *testing.T) {
	h := HashBytes([]byte("payload"))
	data, err := h.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Hash
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != h {
		t.Fatalf("round trip mismatch: got %s, want %s", back, h)
	}
}
