package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTxJSONRoundTripAllVariants(t *testing.T) {
	feeRate := decimal.NewFromFloat(0.01)
	contract := Addr{7}
	admin := Addr{8}

	msgs := []Message{
		MsgUpdateConfig{NewConfig: Config{Owner: Addr{1}, FeeDenom: "ugrug", FeeRate: feeRate}},
		MsgConfigure{FeeRate: &feeRate},
		MsgTransfer{To: Addr{2}, Coins: mustCoins(t, "ugrug:10")},
		MsgStoreCode{WasmByteCode: Binary{0x00, 0x61, 0x73, 0x6d}},
		MsgInstantiate{CodeHash: HashBytes([]byte("code")), Msg: Binary("{}"), Salt: Binary("s"), Admin: &admin},
		MsgExecute{Contract: contract, Msg: Binary("{}")},
		MsgMigrate{Contract: contract, NewCodeHash: HashBytes([]byte("v2"))},
		MsgCreateClient{Contract: contract, Msg: Binary("{}")},
		MsgUpdateClient{Contract: contract, ClientID: "07-tendermint-0", Msg: Binary("{}")},
		MsgSubmitMisbehavior{Contract: contract, ClientID: "07-tendermint-0", Msg: Binary("{}")},
	}

	tx := Tx{Sender: Addr{1}, GasLimit: 200_000, Msgs: msgs, Credential: Binary("sig")}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Tx
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Sender != tx.Sender || back.GasLimit != tx.GasLimit {
		t.Fatalf("scalar fields did not round-trip")
	}
	if len(back.Msgs) != len(msgs) {
		t.Fatalf("expected %d messages, got %d", len(msgs), len(back.Msgs))
	}
	if _, ok := back.Msgs[4].(MsgInstantiate); !ok {
		t.Fatalf("expected message 4 to decode as MsgInstantiate, got %T", back.Msgs[4])
	}
}

func TestTxValidateRejectsEmptyMsgs(t *testing.T) {
	tx := Tx{Sender: Addr{1}}
	if err := tx.Validate(); err == nil {
		t.Fatalf("expected validation error for empty msgs")
	}
}

func TestSubMessageJSONRoundTrip(t *testing.T) {
	sub := SubMessage{Msg: MsgExecute{Contract: Addr{3}, Msg: Binary("{}")}}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back SubMessage
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	exec, ok := back.Msg.(MsgExecute)
	if !ok {
		t.Fatalf("expected MsgExecute, got %T", back.Msg)
	}
	if exec.Contract != (Addr{3}) {
		t.Fatalf("contract field did not round-trip")
	}
}

func mustCoins(t *testing.T, s string) Coins {
	t.Helper()
	c, err := ParseCoins(s)
	if err != nil {
		t.Fatalf("parse coins %q: %v", s, err)
	}
	return c
}
