// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"time"

	"github.com/ardanlabs/coliseum/foundation/blockchain/consensus"
	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/ledger"
	"github.com/ardanlabs/coliseum/foundation/blockchain/network"
	"github.com/ardanlabs/coliseum/foundation/blockchain/peer"
	"github.com/ardanlabs/coliseum/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, peer updates, chain resolution, and
// sharing of transactions and blocks.
type Worker interface {
	Shutdown()
	Sync()
	SignalStartMining()
	SignalCancelMining()
	SignalResolve()
	SignalShareTx(tx database.Tx)
	SignalProposeBlock(block database.Block)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Beneficiary        string
	MiningReward       int64
	Host               string
	Difficulty         uint
	PeerTimeout        time.Duration
	MaxConcurrentFetch int
	KnownPeers         *peer.PeerSet
	EvHandler          EventHandler
}

// State manages the blockchain node.
type State struct {
	beneficiary string
	reward      int64
	host        string
	peerTimeout time.Duration
	evHandler   EventHandler

	knownPeers *peer.PeerSet
	ledger     *ledger.Ledger
	net        *network.Client
	resolver   *consensus.Resolver

	Worker Worker
}

// New constructs a new blockchain node for data management.
func New(cfg Config) (*State, error) {

	// A difficulty above the digest length can never be solved.
	if cfg.Difficulty > pow.MaxDifficulty {
		return nil, fmt.Errorf("difficulty[%d] exceeds the maximum of %d", cfg.Difficulty, pow.MaxDifficulty)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = consensus.DefaultPeerTimeout
	}

	// The ledger starts with only the genesis block. Blocks are brought in
	// from peers by the worker's first sync.
	ldgr := ledger.New(ledger.Config{
		Difficulty: cfg.Difficulty,
		EvHandler:  ev,
	})

	net := network.New(network.Config{
		Timeout:   peerTimeout,
		EvHandler: ev,
	})

	resolver := consensus.New(consensus.Config{
		Host:               cfg.Host,
		Ledger:             ldgr,
		KnownPeers:         knownPeers,
		Gateway:            net,
		PeerTimeout:        peerTimeout,
		MaxConcurrentFetch: cfg.MaxConcurrentFetch,
		EvHandler:          ev,
	})

	state := State{
		beneficiary: cfg.Beneficiary,
		reward:      cfg.MiningReward,
		host:        cfg.Host,
		peerTimeout: peerTimeout,
		evHandler:   ev,

		knownPeers: knownPeers,
		ledger:     ldgr,
		net:        net,
		resolver:   resolver,

		Worker: nopWorker{},
	}

	// The Worker is replaced when worker.Run is called, which starts
	// everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	return nil
}

// =============================================================================

// nopWorker lets the state run without background work.
type nopWorker struct{}

func (nopWorker) Shutdown() {}
func (nopWorker) Sync() {}
func (nopWorker) SignalStartMining() {}
func (nopWorker) SignalCancelMining() {}
func (nopWorker) SignalResolve() {}
func (nopWorker) SignalShareTx(database.Tx) {}
func (nopWorker) SignalProposeBlock(database.Block) {}
