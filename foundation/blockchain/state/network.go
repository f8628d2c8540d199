package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/peer"
)

// NetSendBlockToPeers takes the new mined block and sends it to all known
// peers. Every peer is tried and the last failure is returned.
func (s *State) NetSendBlockToPeers(ctx context.Context, block database.Block) error {
	s.evHandler("state: NetSendBlockToPeers: started")
	defer s.evHandler("state: NetSendBlockToPeers: completed")

	var lastErr error
	for _, pr := range s.RetrieveKnownPeers() {
		if err := s.withTimeout(ctx, func(ctx context.Context) error { return s.net.ProposeBlock(ctx, pr, block) }); err != nil {
			s.evHandler("state: NetSendBlockToPeers: %s: WARNING: %s", pr, err)
			lastErr = fmt.Errorf("%s: %w", pr, err)
			continue
		}

		s.evHandler("state: NetSendBlockToPeers: sent to peer[%s]", pr)
	}

	return lastErr
}

// NetSendTxToPeers shares a new transaction with the known peers.
func (s *State) NetSendTxToPeers(ctx context.Context, tx database.Tx) {
	s.evHandler("state: NetSendTxToPeers: started")
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		if err := s.withTimeout(ctx, func(ctx context.Context) error { return s.net.SubmitTransaction(ctx, pr, tx) }); err != nil {
			s.evHandler("state: NetSendTxToPeers: %s: WARNING: %s", pr, err)
		}
	}
}

// NetRequestPeerStatus asks the peer for its status, which includes the
// peers it knows.
func (s *State) NetRequestPeerStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	return s.net.Status(ctx, pr)
}

// NetRequestPeerMempool asks the peer for the transactions in its mempool.
func (s *State) NetRequestPeerMempool(ctx context.Context, pr peer.Peer) ([]database.Tx, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	return s.net.Mempool(ctx, pr)
}

// NetRequestAddPeer lets the peer know this node is available and returns
// the peers the remote node knows.
func (s *State) NetRequestAddPeer(ctx context.Context, pr peer.Peer) ([]peer.Peer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	return s.net.RegisterPeer(ctx, pr, peer.New(s.host))
}

// withTimeout runs the call bound by the peer timeout.
func (s *State) withTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	return f(ctx)
}
