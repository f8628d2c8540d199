package database

import "fmt"

// RewardSender is the sender used for the mining reward transaction. No
// account can spend from it.
const RewardSender = "0"

// Tx represents a transfer of value between two parties. A Tx has no identity
// beyond its fields and is never modified once created.
type Tx struct {
	Sender   string `json:"sender" validate:"required"`   // Identifier of the party sending the value.
	Receiver string `json:"receiver" validate:"required"` // Identifier of the party receiving the value.
	Amount   int64  `json:"amount"`                       // Value being transferred.
}

// NewTx constructs a transaction.
func NewTx(sender string, receiver string, amount int64) Tx {
	return Tx{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
}

// NewRewardTx constructs the transaction that pays the miner of a block.
func NewRewardTx(beneficiary string, reward int64) Tx {
	return NewTx(RewardSender, beneficiary, reward)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Receiver, tx.Amount)
}
