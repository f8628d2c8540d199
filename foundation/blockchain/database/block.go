package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ZeroHash represents a hash code of zeros. It is returned when a block
// can't be serialized.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Genesis block constants.
const (
	GenesisIndex        uint64 = 1
	GenesisProof        uint64 = 1
	GenesisPreviousHash        = "1"
)

// =============================================================================

// Timestamp represents seconds since the epoch with sub-second precision.
type Timestamp float64

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp(float64(time.Now().UnixNano()) / float64(time.Second))
}

// Time converts the timestamp into a time value.
func (ts Timestamp) Time() time.Time {
	sec, frac := math.Modf(float64(ts))
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// MarshalJSON renders the shortest decimal form that reads back to the same
// value. Whole values keep a trailing ".0" so the encoding always reads as a
// float on the wire.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	f := float64(ts)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported timestamp value %v", f)
	}

	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if !strings.ContainsRune(string(b), '.') {
		b = append(b, '.', '0')
	}

	return b, nil
}

// UnmarshalJSON accepts any JSON number.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	*ts = Timestamp(f)
	return nil
}

// =============================================================================

// Block represents a group of transactions sealed by a proof of work. The
// field order is part of the hashing contract and must not change.
type Block struct {
	Index        uint64    `json:"index"`         // 1-based position in the chain.
	Timestamp    Timestamp `json:"timestamp"`     // Time the block was sealed.
	Transactions []Tx      `json:"transactions"`  // Transactions in mempool insertion order.
	Proof        uint64    `json:"proof"`         // Nonce solving the POW relative to the previous proof.
	PreviousHash string    `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewGenesisBlock constructs the fixed first block of every chain.
func NewGenesisBlock() Block {
	return Block{
		Index:        GenesisIndex,
		Timestamp:    Now(),
		Transactions: []Tx{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
}

// IsGenesis reports whether the block sits in the genesis position.
func (b Block) IsGenesis() bool {
	return b.Index == GenesisIndex
}

// MarshalJSON produces the canonical form of the block. An empty set of
// transactions is always written as [] and never null.
func (b Block) MarshalJSON() ([]byte, error) {
	type block Block

	cpy := block(b)
	if cpy.Transactions == nil {
		cpy.Transactions = []Tx{}
	}

	return canonical(cpy)
}

// Hash returns the lowercase hex SHA-256 of the canonical form of the block.
func (b Block) Hash() string {
	data, err := canonical(b)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// canonical encodes the value as compact JSON without HTML escaping, so
// characters like < and & hash the way they are written on the wire.
func canonical(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d]: proof[%d]: prevHash[%.16s]: txs[%d]", b.Index, b.Proof, b.PreviousHash, len(b.Transactions))
}
