// Package worker implements mining, peer updates, chain resolution, and the
// sharing of transactions and blocks for the blockchain.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/state"
)

// peerUpdateInterval represents the interval of finding new peer nodes
// and letting them know this node exists.
const peerUpdateInterval = time.Minute

// maxShareRequests represents the max number of pending transactions or
// blocks waiting to be shared before new share requests are dropped.
const maxShareRequests = 100

// =============================================================================

// Config represents the configuration for the background work.
type Config struct {
	ResolveInterval time.Duration
	AutoMine        bool
}

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state         *state.State
	wg            sync.WaitGroup
	peerTicker    *time.Ticker
	resolveTicker *time.Ticker
	shut          chan struct{}
	autoMine      bool
	startMining   chan bool
	cancelMining  chan bool
	resolve       chan bool
	txSharing     chan database.Tx
	blockSharing  chan database.Block
	evHandler     state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, evHandler state.EventHandler, cfg Config) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	resolveInterval := cfg.ResolveInterval
	if resolveInterval <= 0 {
		resolveInterval = peerUpdateInterval
	}

	w := Worker{
		state:         st,
		peerTicker:    time.NewTicker(peerUpdateInterval),
		resolveTicker: time.NewTicker(resolveInterval),
		shut:          make(chan struct{}),
		autoMine:      cfg.AutoMine,
		startMining:   make(chan bool, 1),
		cancelMining:  make(chan bool, 1),
		resolve:       make(chan bool, 1),
		txSharing:     make(chan database.Tx, maxShareRequests),
		blockSharing:  make(chan database.Block, maxShareRequests),
		evHandler:     evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.resolveOperations,
		w.miningOperations,
		w.shareTxOperations,
		w.shareBlockOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop tickers")
	w.peerTicker.Stop()
	w.resolveTicker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if !w.autoMine {
		return
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// SignalResolve requests a resolution pass against the known peers. If a
// pass is already pending the signal is dropped.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// SignalShareTx signals a share transaction operation. If
// maxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx database.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// SignalProposeBlock signals a block proposal to the known peers. If
// maxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalProposeBlock(block database.Block) {
	select {
	case w.blockSharing <- block:
		w.evHandler("worker: SignalProposeBlock: share block signaled")
	default:
		w.evHandler("worker: SignalProposeBlock: queue full, block won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
