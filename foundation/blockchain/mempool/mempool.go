// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
)

// Mempool represents a cache of transactions waiting to be sealed into the
// next block, kept in the order they arrived.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// size of the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Drain appends the extra transactions, returns everything in the pool in
// insertion order and leaves the pool empty. It all happens as one step so a
// transaction added concurrently lands either in the returned set or in the
// pool, never both and never neither.
func (mp *Mempool) Drain(extra ...database.Tx) []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := make([]database.Tx, 0, len(mp.pool)+len(extra))
	txs = append(txs, mp.pool...)
	txs = append(txs, extra...)

	mp.pool = nil

	return txs
}

// Remove deletes one pooled occurrence of each of the specified transactions.
// This is used when a peer seals transactions this node also holds.
func (mp *Mempool) Remove(txs []database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pending := make(map[database.Tx]int, len(txs))
	for _, tx := range txs {
		pending[tx]++
	}

	var removed int
	keep := mp.pool[:0]
	for _, tx := range mp.pool {
		if pending[tx] > 0 {
			pending[tx]--
			removed++
			continue
		}
		keep = append(keep, tx)
	}

	// Clear the tail so the backing array doesn't hold stale values.
	clear(mp.pool[len(keep):])
	mp.pool = keep

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a copy of the pool in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}
