package state

import "github.com/ardanlabs/coliseum/foundation/blockchain/database"

// SubmitWalletTransaction accepts a transaction from a client for inclusion.
// The transaction is shared with the known peers.
func (s *State) SubmitWalletTransaction(tx database.Tx) database.Tx {
	s.ledger.AddTransaction(tx)

	s.Worker.SignalShareTx(tx)
	s.Worker.SignalStartMining()

	return tx
}

// SubmitNodeTransaction accepts a transaction shared by a peer for inclusion.
// It is not shared again.
func (s *State) SubmitNodeTransaction(tx database.Tx) database.Tx {
	s.ledger.AddTransaction(tx)

	s.Worker.SignalStartMining()

	return tx
}
