package core

// Storage layout for the top-level state tree (spec §4, grounded on
// original_source/crates/app/src/app.rs's namespacing of chain_id, config,
// the code and account maps, and the last-finalized block marker).
var (
	chainIDItem  = NewItem[string]("chain_id")
	configItem   = NewItem[Config]("config")
	lastBlockItem = NewItem[BlockInfo]("last_finalized_block")

	// codesMap stores uploaded WASM bytecode keyed by its SHA-256 hash.
	codesMap = NewMap[Hash, Binary]("c/")

	// accountsMap stores every instantiated contract's account record keyed
	// by its address.
	accountsMap = NewMap[Addr, Account]("a/")
)

// contractStoragePrefix is the namespace a contract's own key-value pairs
// live under: w/<addr>/<key>, isolated via the PrefixStore that
// runContractCall (executor_msg.go) and the Querier build over it. No
// length-prefixing is needed here (unlike Map composite keys): addr is
// fixed-width, so "w/" + addr + "/" can never collide across contracts.
func contractStoragePrefix(addr Addr) []byte {
	out := make([]byte, 0, 2+AddrLength+1)
	out = append(out, 'w', '/')
	out = append(out, addr[:]...)
	out = append(out, '/')
	return out
}
