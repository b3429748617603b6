// Command chaind wires the durable store, WASM host and App into a
// long-running process. It has no networking of its own (spec §2, item 12:
// the consensus driver that would call InitChain/FinalizeBlock/Commit/
// CheckTx/Query over ABCI is out of scope) — it exists to prove the wiring
// compiles and starts, and to apply a genesis file when one is given.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ledgerforge/chain/pkg/config"
)

func main() {
	env := flag.String("env", "", "environment override name, e.g. \"production\"")
	genesisPath := flag.String("genesis", "", "path to a genesis.json to apply on startup")
	flag.Parse()

	cfg, err := config.Load(*env)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logrus.WithError(err).Fatal("parse logging.level")
	}
	logrus.SetLevel(level)
	if cfg.Logging.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	node, err := NewNode(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("construct node")
	}
	defer node.Close()

	if *genesisPath != "" {
		if err := node.loadGenesis(*genesisPath); err != nil {
			logrus.WithError(err).Fatal("apply genesis")
		}
	}

	info, err := node.App.Info()
	if err != nil {
		logrus.WithError(err).Fatal("query info")
	}
	logrus.WithFields(logrus.Fields{
		"chain_id": info.ChainID,
		"height":   info.LastFinalizedBlock.Height,
		"db_path":  cfg.Storage.DBPath,
	}).Info("chaind ready; awaiting an external consensus driver")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("chaind shutting down")
}
