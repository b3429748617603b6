package core

import "testing"

func TestQuerierInfo(t *testing.T) {
	s := NewMemStorage()
	if err := chainIDItem.Save(s, "grug-test-1"); err != nil {
		t.Fatalf("save chain id: %v", err)
	}
	block := BlockInfo{Height: 42, Timestamp: 1000}
	if err := lastBlockItem.Save(s, block); err != nil {
		t.Fatalf("save block: %v", err)
	}

	q := NewQuerier(s, nil)
	resp, err := q.Info()
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if resp.ChainID != "grug-test-1" || resp.LastFinalizedBlock != block {
		t.Fatalf("unexpected info response: %+v", resp)
	}

	got, err := q.Handle(QueryRequest{Info: &QueryInfo{}})
	if err != nil {
		t.Fatalf("handle info: %v", err)
	}
	if got.(InfoResponse).ChainID != "grug-test-1" {
		t.Fatalf("handle dispatch to info did not match direct call")
	}
}

func TestQuerierConfig(t *testing.T) {
	s := NewMemStorage()
	cfg := Config{Owner: Addr{1}, FeeDenom: "ugrug"}
	if err := configItem.Save(s, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	q := NewQuerier(s, nil)
	got, err := q.Handle(QueryRequest{Config: &QueryConfig{}})
	if err != nil {
		t.Fatalf("handle config: %v", err)
	}
	if got.(Config).Owner != cfg.Owner {
		t.Fatalf("unexpected config response: %+v", got)
	}
}

func TestQuerierAccountLookup(t *testing.T) {
	s := NewMemStorage()
	addr := Addr{9}
	acct := Account{CodeHash: HashBytes([]byte("code"))}
	if err := accountsMap.Save(s, addr, acct); err != nil {
		t.Fatalf("save account: %v", err)
	}

	q := NewQuerier(s, nil)
	got, err := q.Handle(QueryRequest{Account: &QueryAccount{Address: addr}})
	if err != nil {
		t.Fatalf("handle account: %v", err)
	}
	if got.(Account).CodeHash != acct.CodeHash {
		t.Fatalf("unexpected account response: %+v", got)
	}

	if _, err := q.Handle(QueryRequest{Account: &QueryAccount{Address: Addr{99}}}); err == nil {
		t.Fatalf("expected NotFound for unknown account")
	}
}

func TestQuerierAccountsPaginatesInOrder(t *testing.T) {
	s := NewMemStorage()
	addrs := []Addr{{1}, {2}, {3}, {4}, {5}}
	for _, a := range addrs {
		if err := accountsMap.Save(s, a, Account{CodeHash: HashBytes(a[:])}); err != nil {
			t.Fatalf("seed account %x: %v", a, err)
		}
	}

	q := NewQuerier(s, nil)
	limit := uint32(2)
	resp, err := q.accounts(QueryAccounts{Limit: &limit})
	if err != nil {
		t.Fatalf("accounts page 1: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected page size 2, got %d", len(resp.Accounts))
	}
	if resp.Accounts[0].Address != addrs[0] || resp.Accounts[1].Address != addrs[1] {
		t.Fatalf("expected ascending order from the start, got %+v", resp.Accounts)
	}

	startAfter := resp.Accounts[1].Address
	resp2, err := q.accounts(QueryAccounts{StartAfter: &startAfter, Limit: &limit})
	if err != nil {
		t.Fatalf("accounts page 2: %v", err)
	}
	if len(resp2.Accounts) != 2 || resp2.Accounts[0].Address != addrs[2] {
		t.Fatalf("expected page 2 to continue after start_after, got %+v", resp2.Accounts)
	}
}

func TestQuerierAccountsDefaultLimit(t *testing.T) {
	s := NewMemStorage()
	for i := 0; i < DefaultQueryLimit+5; i++ {
		a := Addr{byte(i), byte(i >> 8)}
		if err := accountsMap.Save(s, a, Account{}); err != nil {
			t.Fatalf("seed account %d: %v", i, err)
		}
	}
	q := NewQuerier(s, nil)
	resp, err := q.accounts(QueryAccounts{})
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(resp.Accounts) != DefaultQueryLimit {
		t.Fatalf("expected default limit %d entries, got %d", DefaultQueryLimit, len(resp.Accounts))
	}
}

func TestQuerierWasmRawRejectsUnknownContract(t *testing.T) {
	s := NewMemStorage()
	q := NewQuerier(s, nil)
	if _, err := q.wasmRaw(QueryWasmRaw{Contract: Addr{1}, Key: Binary("k")}); err == nil {
		t.Fatalf("expected NotFound for a contract with no account record")
	}
}

func TestQuerierWasmRawReadsContractStorage(t *testing.T) {
	s := NewMemStorage()
	contract := Addr{3}
	if err := accountsMap.Save(s, contract, Account{CodeHash: HashBytes([]byte("code"))}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	prefixed := NewPrefixStore(s, contractStoragePrefix(contract))
	if err := prefixed.Write([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("seed contract storage: %v", err)
	}

	q := NewQuerier(s, nil)
	got, err := q.wasmRaw(QueryWasmRaw{Contract: contract, Key: Binary("k")})
	if err != nil {
		t.Fatalf("wasm raw: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("expected %q, got %q", "v", got)
	}

	if _, err := q.wasmRaw(QueryWasmRaw{Contract: contract, Key: Binary("missing")}); err == nil {
		t.Fatalf("expected NotFound for an absent key in an otherwise known contract")
	}
}
