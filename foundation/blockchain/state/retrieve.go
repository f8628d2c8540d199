package state

import (
	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveBeneficiary returns the party credited with mining rewards.
func (s *State) RetrieveBeneficiary() string {
	return s.beneficiary
}

// RetrieveDifficulty returns the difficulty of the puzzle.
func (s *State) RetrieveDifficulty() uint {
	return s.ledger.Difficulty()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	block, err := s.ledger.LastBlock()
	if err != nil {
		s.evHandler("state: RetrieveLatestBlock: ERROR: %s", err)
		return database.Block{}
	}

	return block
}

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() []database.Block {
	return s.ledger.Chain()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.ledger.Mempool()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status of this node as shared with peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	latest := s.RetrieveLatestBlock()

	return peer.PeerStatus{
		LatestBlockHash:   latest.Hash(),
		LatestBlockNumber: latest.Index,
		KnownPeers:        s.RetrieveKnownPeers(),
	}
}

// =============================================================================

// AddKnownPeer provides the ability to add a new peer. It returns false when
// the peer is already known or is this node.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}

	return s.knownPeers.Add(pr)
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	return s.ledger.Length()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.ledger.MempoolLength()
}

// QueryKnownPeersLength returns the number of known peers.
func (s *State) QueryKnownPeersLength() int {
	return len(s.RetrieveKnownPeers())
}

// ValidateChain checks the local chain.
func (s *State) ValidateChain() error {
	return s.ledger.ValidateChain(s.ledger.Chain())
}
