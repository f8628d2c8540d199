package worker

import "context"

// Sync updates the peer list and the mempool from the known peers and then
// brings the chain up to date with a resolution pass.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	ctx := context.Background()

	for _, peer := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(ctx, peer)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", peer.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// Retrieve the mempool from the peer.
		pool, err := w.state.NetRequestPeerMempool(ctx, peer)
		if err != nil {
			w.evHandler("worker: sync: retrievePeerMempool: %s: ERROR: %s", peer.Host, err)
			continue
		}
		for _, tx := range pool {
			w.evHandler("worker: sync: retrievePeerMempool: %s: Add Tx: %s", peer.Host, tx)
			w.state.SubmitNodeTransaction(tx)
		}
	}

	// Blocks this node is missing come in through the longest valid chain.
	res := w.state.Resolve(ctx)
	w.evHandler("worker: sync: resolve: replaced[%v]: length[%d]: failures[%d]", res.Replaced, res.Length, len(res.Failures))
}
