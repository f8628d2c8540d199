// Package database defines the blockchain data model: transactions, blocks,
// and chains, along with the canonical serialization those values are hashed
// and transmitted with.
package database

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a transaction, block, or chain payload can't
// be decoded into the data model.
var ErrMalformed = errors.New("malformed payload")

// =============================================================================

// DecodeTx decodes a single transaction from its wire form.
func DecodeTx(data []byte) (Tx, error) {
	var tx Tx
	if err := json.Unmarshal(data, &tx); err != nil {
		return Tx{}, fmt.Errorf("%w: tx: %s", ErrMalformed, err)
	}

	return tx, nil
}

// DecodeBlock decodes a single block from its wire form.
func DecodeBlock(data []byte) (Block, error) {
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return Block{}, fmt.Errorf("%w: block: %s", ErrMalformed, err)
	}

	if block.Index == 0 {
		return Block{}, fmt.Errorf("%w: block: missing index", ErrMalformed)
	}

	return block, nil
}

// DecodeChain decodes a chain, an ordered array of blocks, from its wire form.
// A chain always carries at least the genesis block.
func DecodeChain(data []byte) ([]Block, error) {
	var chain []Block
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, fmt.Errorf("%w: chain: %s", ErrMalformed, err)
	}

	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: chain: no blocks", ErrMalformed)
	}

	for i, block := range chain {
		if block.Index == 0 {
			return nil, fmt.Errorf("%w: chain: block[%d]: missing index", ErrMalformed, i)
		}
	}

	return chain, nil
}
