package core

import "encoding/json"

// MsgContext bundles everything a message handler needs besides the message
// itself and its sender: the cache layer writes land in, the WASM host and
// querier contract calls run against, the current block, the shared gas
// meter, and the current sub-message recursion depth (spec §4.6/§4.5).
type MsgContext struct {
	ParentCache *CacheStore
	Host        *WasmHost
	Querier     *Querier
	Block       BlockInfo
	Gas         *GasMeter
	Depth       int
}

// DispatchMessage runs the handler for msg's concrete variant. It is used
// both for a Tx's top-level messages (against the tx's C_msgs cache) and,
// recursively, for a contract's own sub-messages (each against its own
// sub-cache, see runContractCall) (spec §4.6).
func DispatchMessage(ctx MsgContext, sender Addr, msg Message) (Response, []Event, error) {
	switch m := msg.(type) {
	case MsgUpdateConfig:
		return handleUpdateConfig(ctx.ParentCache, sender, m)
	case MsgConfigure:
		return handleConfigure(ctx.ParentCache, sender, m)
	case MsgTransfer:
		return handleTransfer(ctx, sender, m)
	case MsgStoreCode:
		return handleStoreCode(ctx.ParentCache, m)
	case MsgInstantiate:
		return handleInstantiate(ctx, sender, m)
	case MsgExecute:
		return handleExecute(ctx, sender, m)
	case MsgMigrate:
		return handleMigrate(ctx, sender, m)
	case MsgCreateClient:
		return handleClientEntry(ctx, sender, m.Contract, EntryCreateClient, m.Msg)
	case MsgUpdateClient:
		return handleClientEntry(ctx, sender, m.Contract, EntryUpdateClient, m.Msg)
	case MsgSubmitMisbehavior:
		return handleClientEntry(ctx, sender, m.Contract, EntrySubmitMisbehavior, m.Msg)
	default:
		return Response{}, nil, InvalidInput("unknown message variant")
	}
}

func handleUpdateConfig(cache *CacheStore, sender Addr, m MsgUpdateConfig) (Response, []Event, error) {
	cfg, err := configItem.Load(cache)
	if err != nil {
		return Response{}, nil, err
	}
	if cfg.Owner != sender {
		return Response{}, nil, Unauthorized("sender is not config owner")
	}
	if err := configItem.Save(cache, m.NewConfig); err != nil {
		return Response{}, nil, err
	}
	return Response{}, []Event{{Type: "update_config"}}, nil
}

func handleConfigure(cache *CacheStore, sender Addr, m MsgConfigure) (Response, []Event, error) {
	cfg, err := configItem.Load(cache)
	if err != nil {
		return Response{}, nil, err
	}
	if cfg.Owner != sender {
		return Response{}, nil, Unauthorized("sender is not config owner")
	}
	if m.FeeRate != nil {
		cfg.FeeRate = *m.FeeRate
	}
	if m.Bank != nil {
		cfg.Bank = *m.Bank
	}
	if m.Taxman != nil {
		cfg.Taxman = *m.Taxman
	}
	if err := configItem.Save(cache, cfg); err != nil {
		return Response{}, nil, err
	}
	return Response{}, []Event{{Type: "configure"}}, nil
}

func handleTransfer(ctx MsgContext, sender Addr, m MsgTransfer) (Response, []Event, error) {
	cfg, err := configItem.Load(ctx.ParentCache)
	if err != nil {
		return Response{}, nil, err
	}
	msg, err := json.Marshal(map[string]any{
		"send": map[string]any{"from": sender, "to": m.To, "coins": m.Coins},
	})
	if err != nil {
		return Response{}, nil, InvalidInput("marshal bank send payload: " + err.Error())
	}
	return runContractCall(ctx, sender, cfg.Bank, EntryExecute, msg, nil)
}

func handleStoreCode(cache *CacheStore, m MsgStoreCode) (Response, []Event, error) {
	h := HashBytes(m.WasmByteCode)
	if has, err := codesMap.Has(cache, h); err != nil {
		return Response{}, nil, err
	} else if has {
		return Response{}, nil, AlreadyExists("code", h.String())
	}
	if err := codesMap.Save(cache, h, Binary(m.WasmByteCode)); err != nil {
		return Response{}, nil, err
	}
	return Response{Attributes: map[string]string{"code_hash": h.String()}},
		[]Event{{Type: "store_code", Attributes: map[string]string{"code_hash": h.String()}}}, nil
}

func handleInstantiate(ctx MsgContext, sender Addr, m MsgInstantiate) (Response, []Event, error) {
	cache := ctx.ParentCache
	addr := DeriveContractAddr(sender, m.CodeHash, m.Salt)
	if has, err := accountsMap.Has(cache, addr); err != nil {
		return Response{}, nil, err
	} else if has {
		return Response{}, nil, AlreadyExists("account", addr.String())
	}
	if _, err := codesMap.Load(cache, m.CodeHash); err != nil {
		return Response{}, nil, err
	}
	if err := accountsMap.Save(cache, addr, Account{CodeHash: m.CodeHash, Admin: m.Admin}); err != nil {
		return Response{}, nil, err
	}
	return runContractCall(ctx, sender, addr, EntryInstantiate, m.Msg, m.Funds)
}

func handleExecute(ctx MsgContext, sender Addr, m MsgExecute) (Response, []Event, error) {
	if _, err := accountsMap.Load(ctx.ParentCache, m.Contract); err != nil {
		return Response{}, nil, err
	}
	return runContractCall(ctx, sender, m.Contract, EntryExecute, m.Msg, m.Funds)
}

func handleMigrate(ctx MsgContext, sender Addr, m MsgMigrate) (Response, []Event, error) {
	cache := ctx.ParentCache
	account, err := accountsMap.Load(cache, m.Contract)
	if err != nil {
		return Response{}, nil, err
	}
	if account.Admin == nil {
		return Response{}, nil, Unauthorized("contract has no admin")
	}
	if *account.Admin != sender {
		return Response{}, nil, Unauthorized("sender is not contract admin")
	}
	if _, err := codesMap.Load(cache, m.NewCodeHash); err != nil {
		return Response{}, nil, err
	}
	account.CodeHash = m.NewCodeHash
	if err := accountsMap.Save(cache, m.Contract, account); err != nil {
		return Response{}, nil, err
	}
	return runContractCall(ctx, sender, m.Contract, EntryMigrate, m.Msg, nil)
}

func handleClientEntry(ctx MsgContext, sender, contract Addr, entry EntryPoint, msg Binary) (Response, []Event, error) {
	if _, err := accountsMap.Load(ctx.ParentCache, contract); err != nil {
		return Response{}, nil, err
	}
	return runContractCall(ctx, sender, contract, entry, msg, nil)
}

// runContractCall is the single path through which every contract
// invocation happens: built-in message handlers call it for the user's
// original message, and it calls itself for every sub-message a contract's
// Response asks to run afterward, depth-first, each in its own sub-cache
// (spec §4.5 step 6, §4.6).
func runContractCall(ctx MsgContext, sender, contract Addr, entry EntryPoint, msg Binary, funds Coins) (Response, []Event, error) {
	cache := ctx.ParentCache

	if !funds.IsZero() {
		cfg, err := configItem.Load(cache)
		if err != nil {
			return Response{}, nil, err
		}
		sendMsg, err := json.Marshal(map[string]any{
			"send": map[string]any{"from": sender, "to": contract, "coins": funds},
		})
		if err != nil {
			return Response{}, nil, InvalidInput("marshal bank send payload: " + err.Error())
		}
		if _, _, err := runContractCall(ctx, sender, cfg.Bank, EntryExecute, sendMsg, nil); err != nil {
			return Response{}, nil, err
		}
	}

	account, err := accountsMap.Load(cache, contract)
	if err != nil {
		return Response{}, nil, err
	}
	code, err := codesMap.Load(cache, account.CodeHash)
	if err != nil {
		return Response{}, nil, err
	}

	childCache := NewCacheStore(cache)
	prefixed := NewPrefixStore(childCache, contractStoragePrefix(contract))
	shared := NewSharedStore(prefixed)

	resp, err := ctx.Host.Call(
		code, account.CodeHash, entry,
		Env{Block: ctx.Block, Contract: contract},
		Info{Sender: sender, Funds: funds},
		msg, shared, ctx.Querier, ctx.Gas, ctx.Depth,
	)
	if err != nil {
		return Response{}, nil, err
	}

	events := []Event{{Type: string(entry), Attributes: map[string]string{"contract": contract.String()}}}
	subCtx := ctx
	subCtx.ParentCache = childCache
	subCtx.Depth = ctx.Depth + 1
	for _, sub := range resp.Msgs {
		_, subEvents, err := DispatchMessage(subCtx, contract, sub.Msg)
		if err != nil {
			return Response{}, nil, err
		}
		events = append(events, subEvents...)
	}

	MergeBatch(cache, childCache.Commit())
	return resp, events, nil
}
