package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/coliseum/foundation/blockchain/consensus"
	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/ledger"
)

// ErrNoTransactions is returned when a block is requested to be mined
// and there are no transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock solves the puzzle for the next block and seals the mempool
// into it along with the reward for the beneficiary. The new block is
// proposed to the known peers. Mining stops when the context is cancelled.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	reward := database.NewRewardTx(s.beneficiary, s.reward)

	block, err := s.ledger.MineNextBlock(ctx, reward)
	if err != nil {
		return database.Block{}, err
	}

	s.Worker.SignalProposeBlock(block)

	return block, nil
}

// MineNewBlockIfPending is MineNewBlock for the background worker, which only
// mines when there are transactions waiting.
func (s *State) MineNewBlockIfPending(ctx context.Context) (database.Block, error) {
	if s.ledger.MempoolLength() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	return s.MineNewBlock(ctx)
}

// ProcessProposedBlock takes a block received from a peer and, when it is the
// next block of the local chain, appends it. A block further ahead means this
// node is behind, so a resolution pass is requested.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: %s", block)
	defer s.evHandler("state: ProcessProposedBlock: completed")

	if err := s.ledger.AcceptBlock(block); err != nil {
		if errors.Is(err, ledger.ErrBlockAhead) {
			s.evHandler("state: ProcessProposedBlock: behind the peer: signal resolve")
			s.Worker.SignalResolve()
		}
		return err
	}

	// Any mining in progress is working on a block that is no longer next.
	s.Worker.SignalCancelMining()

	return nil
}

// Resolve runs a resolution pass against the known peers.
func (s *State) Resolve(ctx context.Context) consensus.Result {
	res := s.resolver.Resolve(ctx)

	if res.Replaced {
		s.Worker.SignalCancelMining()
	}

	return res
}
