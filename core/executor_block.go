package core

import (
	"encoding/json"
	"fmt"
)

// genesisGasLimit bounds genesis message execution. Genesis runs once at
// chain bootstrap from a trusted document, not from an untrusted tx, so it
// gets a generous budget rather than one derived from any particular Tx.
const genesisGasLimit = DefaultHostCallCost * 10_000

// checkTxGasLimit caps CheckTx's own authenticate+withhold_fee dry run: the
// dry run's budget is the lesser of this cap and the tx's own gas_limit, so a
// tx claiming a huge limit cannot buy an unbounded check.
const checkTxGasLimit = DefaultHostCallCost * 1_000

// PendingData is the batch produced by FinalizeBlock and not yet durable.
// It sits between FinalizeBlock and Commit exactly as spec §4.8 describes:
// "extract the pending batch... store it alongside the new block... Do not
// yet write it."
type PendingData struct {
	Block BlockInfo
	Batch Batch
}

// App is the top-level state machine the consensus driver calls into. Its
// method names mirror the ABCI-style lifecycle this core implements:
// InitChain, FinalizeBlock, Commit, CheckTx, Query (spec §2, §4.8).
type App struct {
	storage Flush
	host    *WasmHost
	pending *PendingData
}

// NewApp wires a durable store and a WASM host into a fresh App.
func NewApp(storage Flush, host *WasmHost) *App {
	return &App{storage: storage, host: host}
}

// InitChain seeds chain_id, config and runs the genesis messages from the
// all-zero sender. Any genesis message failure aborts the whole operation;
// nothing from a failed InitChain is ever made durable.
func (a *App) InitChain(genesis GenesisState) (Hash, error) {
	cInit := NewCacheStore(a.storage)
	if err := chainIDItem.Save(cInit, genesis.ChainID); err != nil {
		return ZeroHash, err
	}
	if err := configItem.Save(cInit, genesis.Config); err != nil {
		return ZeroHash, err
	}
	genesisBlock := BlockInfo{Height: 0}
	if err := lastBlockItem.Save(cInit, genesisBlock); err != nil {
		return ZeroHash, err
	}

	querier := NewQuerier(a.storage, a.host)
	ctx := MsgContext{
		ParentCache: cInit,
		Host:        a.host,
		Querier:     querier,
		Block:       genesisBlock,
		Gas:         NewGasMeter(genesisGasLimit),
	}
	for i, msg := range genesis.Msgs {
		if _, _, err := DispatchMessage(ctx, AddrZero, msg); err != nil {
			return ZeroHash, Fatalf("genesis message %d failed: %v", i, err)
		}
	}

	batch := cInit.Commit()
	if err := a.storage.FlushBatch(batch); err != nil {
		return ZeroHash, Fatalf("flush genesis state: %v", err)
	}
	return ZeroHash, nil
}

// FinalizeBlock runs every tx in order against a fresh block cache and
// stages, but does not yet persist, the resulting batch (spec §4.8).
func (a *App) FinalizeBlock(block BlockInfo, txs []Tx) (BlockOutcome, error) {
	if a.pending != nil {
		return BlockOutcome{}, PendingStatef("finalize_block called with an uncommitted pending batch")
	}
	last, err := lastBlockItem.Load(a.storage)
	if err != nil {
		return BlockOutcome{}, err
	}
	if err := last.ValidateSuccessor(block); err != nil {
		return BlockOutcome{}, err
	}

	cBlk := NewCacheStore(a.storage)
	querier := NewQuerier(a.storage, a.host)

	outcomes := make([]TxOutcome, 0, len(txs))
	for _, tx := range txs {
		outcome, err := ExecuteTx(cBlk, a.host, querier, block, tx)
		if err != nil {
			outcomes = append(outcomes, TxOutcome{Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	if err := lastBlockItem.Save(cBlk, block); err != nil {
		return BlockOutcome{}, err
	}

	a.pending = &PendingData{Block: block, Batch: cBlk.Commit()}

	// Merkleization is out of scope (spec §1 Non-goals); app_hash is a zero
	// placeholder until a state-commitment scheme is chosen.
	return BlockOutcome{TxOutcomes: outcomes, AppHash: ZeroHash}, nil
}

// Commit flushes the pending batch atomically and clears it. Any failure
// here is fatal: the batch may be partially applied and the process must
// not continue as if nothing happened (spec §4.8).
func (a *App) Commit() error {
	if a.pending == nil {
		return PendingStatef("commit called with no pending batch")
	}
	if err := a.storage.FlushBatch(a.pending.Batch); err != nil {
		return Fatalf("flush pending batch: %v", err)
	}
	a.pending = nil
	return nil
}

// CheckTx runs only the authenticate and withhold_fee phases against a
// cache that is discarded afterward, never finalize_fee and never the
// message phase (spec §8 Open Question (i): running finalize_fee in
// check_tx is unspecified and withhold-only is the safe reading).
func (a *App) CheckTx(tx Tx) (TxOutcome, error) {
	if err := tx.Validate(); err != nil {
		return TxOutcome{}, err
	}
	block, err := lastBlockItem.Load(a.storage)
	if err != nil {
		return TxOutcome{}, err
	}

	cCheck := NewCacheStore(a.storage)
	gas := NewGasMeter(min(tx.GasLimit, uint64(checkTxGasLimit)))
	ctx := MsgContext{
		ParentCache: cCheck,
		Host:        a.host,
		Querier:     NewQuerier(a.storage, a.host),
		Block:       block,
		Gas:         gas,
	}

	txBytes, err := json.Marshal(tx)
	if err != nil {
		return TxOutcome{}, Fatalf("marshal tx for check_tx: %v", err)
	}
	if _, _, err := runContractCall(ctx, tx.Sender, tx.Sender, EntryBeforeTx, txBytes, nil); err != nil {
		return TxOutcome{}, fmt.Errorf("authenticate: %w", err)
	}

	cfg, err := configItem.Load(cCheck)
	if err != nil {
		return TxOutcome{}, err
	}
	if _, _, err := runContractCall(ctx, tx.Sender, cfg.Taxman, EntryWithholdFee, txBytes, nil); err != nil {
		return TxOutcome{}, fmt.Errorf("withhold fee: %w", err)
	}

	return TxOutcome{GasUsed: gas.Used()}, nil
}

// Query answers a read-only QueryRequest against the last committed state.
// Since the pending batch is never flushed before Commit, reading a.storage
// directly already satisfies "queries never see the pending block" (spec
// §4.9) without any special-casing here.
func (a *App) Query(req QueryRequest) (any, error) {
	return NewQuerier(a.storage, a.host).Handle(req)
}

// Info reports the chain ID and last finalized block.
func (a *App) Info() (InfoResponse, error) {
	return NewQuerier(a.storage, a.host).Info()
}
