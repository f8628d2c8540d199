package worker

import "context"

// resolveOperations handles reconciling the chain with the known peers.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.resolveTicker.C:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation runs a resolution pass.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	res := w.state.Resolve(context.Background())

	for pr, err := range res.Failures {
		w.evHandler("worker: runResolveOperation: %s: WARNING: %s", pr, err)
	}

	if res.Replaced {
		w.evHandler("worker: runResolveOperation: adopted chain from %s: length[%d]", res.Source, res.Length)

		// Transactions left in the mempool still need a block.
		if w.state.QueryMempoolLength() > 0 {
			w.SignalStartMining()
		}
	}
}
