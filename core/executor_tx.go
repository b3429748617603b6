package core

import (
	"encoding/json"
	"fmt"
)

// ExecuteTx runs the full per-transaction lifecycle against blockCache
// (spec §4.7): authenticate, withhold the fee, persist those side effects
// unconditionally, run the messages in their own cache, and finalize the
// fee against whatever outcome resulted. A non-nil error from validation,
// authentication or fee withholding means the tx is rejected outright and
// nothing it touched is persisted; a TxOutcome with a non-empty Error means
// the tx was included but its message phase failed (authentication and fee
// withholding still took effect). A finalize_fee failure returns a
// Fatal-wrapped error after the authentication and message-phase writes have
// already been merged into blockCache; only finalize_fee's own writes are
// dropped.
func ExecuteTx(blockCache *CacheStore, host *WasmHost, querier *Querier, block BlockInfo, tx Tx) (TxOutcome, error) {
	if err := tx.Validate(); err != nil {
		return TxOutcome{}, err
	}

	gas := NewGasMeter(tx.GasLimit)
	txBytes, err := json.Marshal(tx)
	if err != nil {
		return TxOutcome{}, Fatalf("marshal tx for authentication: %v", err)
	}

	// 1-3: authenticate, withhold the fee, persist unconditionally.
	cTx := NewCacheStore(blockCache)
	authCtx := MsgContext{ParentCache: cTx, Host: host, Querier: querier, Block: block, Gas: gas}

	if _, _, err := runContractCall(authCtx, tx.Sender, tx.Sender, EntryBeforeTx, txBytes, nil); err != nil {
		return TxOutcome{}, fmt.Errorf("authenticate: %w", err)
	}

	cfg, err := configItem.Load(cTx)
	if err != nil {
		return TxOutcome{}, err
	}

	if _, _, err := runContractCall(authCtx, tx.Sender, cfg.Taxman, EntryWithholdFee, txBytes, nil); err != nil {
		return TxOutcome{}, fmt.Errorf("withhold fee: %w", err)
	}

	MergeBatch(blockCache, cTx.Commit())

	// 4: execute messages over a fresh cache that already sees the
	// authentication side effects just merged above.
	cMsgs := NewCacheStore(blockCache)
	msgCtx := MsgContext{ParentCache: cMsgs, Host: host, Querier: querier, Block: block, Gas: gas}

	var events []Event
	var msgErr error
	for _, msg := range tx.Msgs {
		_, msgEvents, err := DispatchMessage(msgCtx, tx.Sender, msg)
		if err != nil {
			msgErr = err
			break
		}
		events = append(events, msgEvents...)
	}
	if msgErr != nil {
		cMsgs.Discard()
		events = nil
	} else {
		MergeBatch(blockCache, cMsgs.Commit())
	}

	outcome := TxOutcome{GasUsed: gas.Used(), Events: events}
	if msgErr != nil {
		outcome.Error = msgErr.Error()
	}

	// 5: finalize the fee against the outcome just computed.
	cFee := NewCacheStore(blockCache)
	feeCtx := MsgContext{ParentCache: cFee, Host: host, Querier: querier, Block: block, Gas: gas}
	finalizePayload, err := json.Marshal(map[string]any{"tx": tx, "outcome": outcome})
	if err != nil {
		return TxOutcome{}, Fatalf("marshal finalize_fee payload: %v", err)
	}
	if _, _, err := runContractCall(feeCtx, tx.Sender, cfg.Taxman, EntryFinalizeFee, finalizePayload, nil); err != nil {
		return TxOutcome{}, Fatalf("finalize fee: %v", err)
	}
	MergeBatch(blockCache, cFee.Commit())

	return outcome, nil
}
