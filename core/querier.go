package core

import "encoding/json"

// DefaultQueryLimit bounds any Accounts-style paginated query result when
// the caller doesn't specify one (spec §4.9).
const DefaultQueryLimit = 30

// QueryRequest is the closed set of read-only queries the chain serves.
// Like Message, it is a tagged one-of rather than a registry: the set is
// fixed and dispatch benefits from an exhaustive switch.
type QueryRequest struct {
	Info     *QueryInfo     `json:"info,omitempty"`
	Config   *QueryConfig   `json:"config,omitempty"`
	Account  *QueryAccount  `json:"account,omitempty"`
	Accounts *QueryAccounts `json:"accounts,omitempty"`
	Balance  *QueryBalance  `json:"balance,omitempty"`
	Balances *QueryBalances `json:"balances,omitempty"`
	WasmRaw  *QueryWasmRaw  `json:"wasm_raw,omitempty"`
	WasmSmart *QueryWasmSmart `json:"wasm_smart,omitempty"`
}

type QueryInfo struct{}

type QueryConfig struct{}

type QueryAccount struct {
	Address Addr `json:"address"`
}

type QueryAccounts struct {
	StartAfter *Addr `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

type QueryBalance struct {
	Address Addr   `json:"address"`
	Denom   string `json:"denom"`
}

type QueryBalances struct {
	Address Addr `json:"address"`
}

type QueryWasmRaw struct {
	Contract Addr   `json:"contract"`
	Key      Binary `json:"key"`
}

type QueryWasmSmart struct {
	Contract Addr   `json:"contract"`
	Msg      Binary `json:"msg"`
}

// InfoResponse answers QueryInfo.
type InfoResponse struct {
	ChainID          string   `json:"chain_id"`
	LastFinalizedBlock BlockInfo `json:"last_finalized_block"`
}

// AccountsResponse answers QueryAccounts with up to Limit entries whose
// address sorts after StartAfter.
type AccountsResponse struct {
	Accounts []AccountEntry `json:"accounts"`
}

type AccountEntry struct {
	Address Addr    `json:"address"`
	Account Account `json:"account"`
}

// Querier answers read-only queries against the last-committed state only;
// it never sees the pending batch staged between FinalizeBlock and Commit
// (spec §4.9, "queries always observe the last committed state").
type Querier struct {
	store Storage
	host  *WasmHost
}

// NewQuerier builds a Querier over the given committed store.
func NewQuerier(store Storage, host *WasmHost) *Querier {
	return &Querier{store: store, host: host}
}

// Handle dispatches req to its handler. Exactly one field of req must be set.
func (q *Querier) Handle(req QueryRequest) (any, error) {
	switch {
	case req.Info != nil:
		return q.info()
	case req.Config != nil:
		return configItem.Load(q.store)
	case req.Account != nil:
		return accountsMap.Load(q.store, req.Account.Address)
	case req.Accounts != nil:
		return q.accounts(*req.Accounts)
	case req.Balance != nil:
		return q.balance(*req.Balance)
	case req.Balances != nil:
		return q.balances(*req.Balances)
	case req.WasmRaw != nil:
		return q.wasmRaw(*req.WasmRaw)
	case req.WasmSmart != nil:
		return q.wasmSmart(*req.WasmSmart)
	default:
		return nil, InvalidInput("query request: no recognized variant")
	}
}

// Info is the exported form of the QueryInfo handler, used directly by
// App.Info without going through the QueryRequest envelope.
func (q *Querier) Info() (InfoResponse, error) {
	return q.info()
}

func (q *Querier) info() (InfoResponse, error) {
	chainID, err := chainIDItem.Load(q.store)
	if err != nil {
		return InfoResponse{}, err
	}
	block, err := lastBlockItem.Load(q.store)
	if err != nil {
		return InfoResponse{}, err
	}
	return InfoResponse{ChainID: chainID, LastFinalizedBlock: block}, nil
}

func (q *Querier) accounts(req QueryAccounts) (AccountsResponse, error) {
	limit := uint32(DefaultQueryLimit)
	if req.Limit != nil {
		limit = *req.Limit
	}
	var min *Bound
	if req.StartAfter != nil {
		min = BoundExclusive(req.StartAfter.MapKey())
	}
	entries, err := accountsMap.Range(q.store, min, nil, Ascending)
	if err != nil {
		return AccountsResponse{}, err
	}
	out := AccountsResponse{}
	for _, e := range entries {
		if uint32(len(out.Accounts)) >= limit {
			break
		}
		var addr Addr
		copy(addr[:], e.Key[len(accountsMap.prefix):])
		out.Accounts = append(out.Accounts, AccountEntry{Address: addr, Account: e.Value})
	}
	return out, nil
}

// wasmRaw reads a single key from a contract's own storage partition
// directly, bypassing its query entry point.
func (q *Querier) wasmRaw(req QueryWasmRaw) (Binary, error) {
	if _, err := accountsMap.Load(q.store, req.Contract); err != nil {
		return nil, err
	}
	prefixed := NewPrefixStore(q.store, contractStoragePrefix(req.Contract))
	value, ok, err := prefixed.Read(req.Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("wasm raw key", string(req.Key))
	}
	return Binary(value), nil
}

// wasmSmart invokes the contract's query entry point with msg and returns
// its raw JSON response, undecoded (the caller knows the contract's
// response shape; the core does not).
func (q *Querier) wasmSmart(req QueryWasmSmart) (json.RawMessage, error) {
	account, err := accountsMap.Load(q.store, req.Contract)
	if err != nil {
		return nil, err
	}
	code, err := codesMap.Load(q.store, account.CodeHash)
	if err != nil {
		return nil, err
	}
	block, err := lastBlockItem.Load(q.store)
	if err != nil {
		return nil, err
	}
	prefixed := NewPrefixStore(q.store, contractStoragePrefix(req.Contract))
	shared := NewSharedStore(prefixed)
	resp, err := q.host.Call(
		code, account.CodeHash, EntryQuery,
		Env{Block: block, Contract: req.Contract},
		Info{Sender: AddrZero},
		req.Msg,
		shared, q, NewGasMeter(DefaultHostCallCost*100), 0,
	)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Data), nil
}

// balance answers QueryBalance by delegating to the bank contract's own
// balance query, since coin accounting is bank's business logic, not the
// core's (spec §2 Non-goals).
func (q *Querier) balance(req QueryBalance) (Coins, error) {
	cfg, err := configItem.Load(q.store)
	if err != nil {
		return nil, err
	}
	msg, _ := json.Marshal(map[string]any{"balance": map[string]any{"address": req.Address, "denom": req.Denom}})
	raw, err := q.wasmSmart(QueryWasmSmart{Contract: cfg.Bank, Msg: msg})
	if err != nil {
		return nil, err
	}
	var out Coins
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, ContractErrorf("decode bank balance response: %v", err)
	}
	return out, nil
}

func (q *Querier) balances(req QueryBalances) (Coins, error) {
	cfg, err := configItem.Load(q.store)
	if err != nil {
		return nil, err
	}
	msg, _ := json.Marshal(map[string]any{"balances": map[string]any{"address": req.Address}})
	raw, err := q.wasmSmart(QueryWasmSmart{Contract: cfg.Bank, Msg: msg})
	if err != nil {
		return nil, err
	}
	var out Coins
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, ContractErrorf("decode bank balances response: %v", err)
	}
	return out, nil
}
