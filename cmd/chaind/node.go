package main

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ledgerforge/chain/core"
	"github.com/ledgerforge/chain/pkg/config"
)

// Node wires the durable store and WASM host into an App. It is the minimal
// ABCI-style harness spec.md's Node Entrypoint describes: no networking, but
// the same construction a consensus driver's in-process binding would reuse
// (spec §2, item 12).
type Node struct {
	Storage *core.BoltStorage
	Host    *core.WasmHost
	App     *core.App
}

// NewNode opens the on-disk store at cfg.Storage.DBPath and constructs the
// WASM host and App around it.
func NewNode(cfg *config.Config) (*Node, error) {
	storage, err := core.OpenBoltStorage(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	host, err := core.NewWasmHost(cfg.VM.ModuleCacheSize, cfg.VM.CallStackLimit)
	if err != nil {
		storage.Close()
		return nil, err
	}
	app := core.NewApp(storage, host)
	return &Node{Storage: storage, Host: host, App: app}, nil
}

// Close releases the underlying store handle.
func (n *Node) Close() error {
	return n.Storage.Close()
}

// loadGenesis reads a genesis document (core.GenesisState's JSON form) from
// path and runs InitChain against it.
func (n *Node) loadGenesis(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var genesis core.GenesisState
	if err := json.Unmarshal(data, &genesis); err != nil {
		return err
	}
	if _, err := n.App.InitChain(genesis); err != nil {
		return err
	}
	info, err := n.App.Info()
	if err != nil {
		return err
	}
	logrus.WithField("chain_id", info.ChainID).Info("genesis applied")
	return nil
}
