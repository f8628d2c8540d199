// Package ledger owns the chain of blocks and the pool of transactions
// waiting to be sealed, and implements the longest valid chain rule.
package ledger

import (
	"context"
	"sync"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/mempool"
	"github.com/ardanlabs/coliseum/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Difficulty uint
	EvHandler  EventHandler
}

// Ledger manages the chain and the mempool. The chain lock is always taken
// before the mempool lock.
type Ledger struct {
	mu         sync.RWMutex
	chain      []database.Block
	mempool    *mempool.Mempool
	difficulty uint
	evHandler  EventHandler
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) *Ledger {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	return &Ledger{
		chain:      []database.Block{database.NewGenesisBlock()},
		mempool:    mempool.New(),
		difficulty: cfg.Difficulty,
		evHandler:  ev,
	}
}

// Difficulty returns the number of leading zeros a proof must produce.
func (l *Ledger) Difficulty() uint {
	return l.difficulty
}

// =============================================================================

// AddTransaction places the transaction in the mempool for the next block.
func (l *Ledger) AddTransaction(tx database.Tx) database.Tx {
	n := l.mempool.Add(tx)
	l.evHandler("ledger: AddTransaction: tx[%s]: mempool[%d]", tx, n)

	return tx
}

// CreateBlock seals every transaction in the mempool into a new block and
// appends it to the chain. The proof and previous hash are trusted as given.
func (l *Ledger) CreateBlock(previousHash string, proof uint64) database.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seal(previousHash, proof)
}

// seal builds and appends the next block. The chain lock must be held.
func (l *Ledger) seal(previousHash string, proof uint64, extra ...database.Tx) database.Block {
	block := database.Block{
		Index:        uint64(len(l.chain)) + 1,
		Timestamp:    database.Now(),
		Transactions: l.mempool.Drain(extra...),
		Proof:        proof,
		PreviousHash: previousHash,
	}
	l.chain = append(l.chain, block)

	l.evHandler("ledger: seal: %s", block)

	return block
}

// MineNextBlock solves the puzzle for the latest block and seals the mempool
// into the next block with the reward transaction appended last. The search
// runs without holding any lock, so if the chain moves while searching the
// search starts over on the new latest block.
func (l *Ledger) MineNextBlock(ctx context.Context, reward database.Tx) (database.Block, error) {
	for {
		last, err := l.LastBlock()
		if err != nil {
			return database.Block{}, err
		}
		lastHash := last.Hash()

		l.evHandler("ledger: MineNextBlock: MINING: search: prevBlk[%d]: difficulty[%d]", last.Index, l.difficulty)

		proof, err := pow.Search(ctx, l.difficulty, last.Proof, pow.EventHandler(l.evHandler))
		if err != nil {
			return database.Block{}, err
		}

		l.mu.Lock()

		tail := l.chain[len(l.chain)-1]
		if tail.Hash() != lastHash {
			l.mu.Unlock()
			l.evHandler("ledger: MineNextBlock: MINING: chain moved to blk[%d]: search again", tail.Index)
			continue
		}

		block := l.seal(lastHash, proof, reward)
		l.mu.Unlock()

		return block, nil
	}
}

// AcceptBlock appends a block proposed by a peer when it is the next block
// of this chain. Transactions sealed in the block are removed from the
// mempool.
func (l *Ledger) AcceptBlock(block database.Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail := l.chain[len(l.chain)-1]

	switch {
	case block.Index <= tail.Index:
		return ErrBlockStale
	case block.Index > tail.Index+1:
		return ErrBlockAhead
	}

	if err := l.validateLink(tail, block, block.Index); err != nil {
		return err
	}

	l.chain = append(l.chain, block)
	removed := l.mempool.Remove(block.Transactions)

	l.evHandler("ledger: AcceptBlock: %s: removed from mempool[%d]", block, removed)

	return nil
}

// =============================================================================

// ValidateChain checks every block sits at its 1-based position, and that
// every block after genesis links to the hash of the block before it with a
// proof that solves the puzzle for the previous proof. It stops at the first
// failure.
func (l *Ledger) ValidateChain(chain []database.Block) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	for i, block := range chain {
		index := uint64(i + 1)
		if block.Index != index {
			return &ValidationError{Index: index, Err: ErrBadIndex}
		}

		if i == 0 {
			continue
		}

		if err := l.validateLink(chain[i-1], block, index); err != nil {
			return err
		}
	}

	return nil
}

// IsChainValid reports whether the chain passes ValidateChain.
func (l *Ledger) IsChainValid(chain []database.Block) bool {
	return l.ValidateChain(chain) == nil
}

func (l *Ledger) validateLink(prev database.Block, block database.Block, index uint64) error {
	if block.PreviousHash != prev.Hash() {
		return &ValidationError{Index: index, Err: ErrBrokenLink}
	}

	if !pow.Valid(l.difficulty, prev.Proof, block.Proof) {
		return &ValidationError{Index: index, Err: ErrInvalidProof}
	}

	return nil
}

// ReplaceChain adopts the candidate when it is strictly longer than the local
// chain and valid. The swap is all or nothing: a rejected candidate leaves
// the local chain untouched. Transactions sealed in the adopted blocks are
// removed from the mempool.
func (l *Ledger) ReplaceChain(candidate []database.Block) (bool, error) {
	if len(candidate) <= l.Length() {
		return false, nil
	}

	chain := make([]database.Block, len(candidate))
	copy(chain, candidate)

	if err := l.ValidateChain(chain); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// The chain may have grown while the candidate was being validated.
	if len(chain) <= len(l.chain) {
		return false, nil
	}

	fork := 0
	for fork < len(l.chain) && l.chain[fork].Hash() == chain[fork].Hash() {
		fork++
	}

	var sealed []database.Tx
	for _, block := range chain[fork:] {
		sealed = append(sealed, block.Transactions...)
	}

	old := len(l.chain)
	l.chain = chain
	removed := l.mempool.Remove(sealed)

	l.evHandler("ledger: ReplaceChain: length[%d] -> length[%d]: fork[%d]: removed from mempool[%d]", old, len(chain), fork+1, removed)

	return true, nil
}

// =============================================================================

// LastBlock returns the latest block in the chain.
func (l *Ledger) LastBlock() (database.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return database.Block{}, ErrEmptyChain
	}

	return l.chain[len(l.chain)-1], nil
}

// Chain returns a copy of the chain.
func (l *Ledger) Chain() []database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]database.Block, len(l.chain))
	copy(chain, l.chain)

	return chain
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// Mempool returns a copy of the transactions waiting to be sealed.
func (l *Ledger) Mempool() []database.Tx {
	return l.mempool.Copy()
}

// MempoolLength returns the number of transactions waiting to be sealed.
func (l *Ledger) MempoolLength() int {
	return l.mempool.Count()
}
