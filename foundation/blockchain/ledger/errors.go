package ledger

import (
	"errors"
	"fmt"
)

// Set of errors returned by the ledger.
var (
	ErrEmptyChain   = errors.New("chain has no blocks")
	ErrBadIndex     = errors.New("block index does not match its position in the chain")
	ErrBrokenLink   = errors.New("previous hash does not match the hash of the previous block")
	ErrInvalidProof = errors.New("proof does not solve the puzzle for the previous proof")
	ErrBlockStale   = errors.New("block is not newer than the latest block")
	ErrBlockAhead   = errors.New("block is further ahead than the next block")
)

// ValidationError describes the first block in a chain that failed the
// position, linkage or proof checks.
type ValidationError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block[%d]: %s", ve.Index, ve.Err)
}

// Unwrap provides access to the underlying cause.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
