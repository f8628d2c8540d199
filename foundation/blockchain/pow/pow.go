// Package pow implements the proof of work puzzle used to order blocks. A
// proof is valid when the hash of the previous proof followed by the candidate
// proof starts with a difficulty number of zeros.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DefaultDifficulty is the number of leading hex zeros a proof hash needs
// when a node doesn't configure its own difficulty.
const DefaultDifficulty uint = 5

// MaxDifficulty is the length of a hex encoded SHA-256 digest.
const MaxDifficulty uint = sha256.Size * 2

// reportEvery sets how often Search reports its progress.
const reportEvery = 1_000_000

// EventHandler defines a function that is called when events
// occur in the processing of a search.
type EventHandler func(v string, args ...any)

// =============================================================================

// Hash returns the hex digest the puzzle checks for the pair of proofs.
func Hash(prevProof uint64, proof uint64) string {
	data := strconv.AppendUint(nil, prevProof, 10)
	data = strconv.AppendUint(data, proof, 10)

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Valid checks the candidate proof against the previous proof. A difficulty of
// zero accepts every proof.
func Valid(difficulty uint, prevProof uint64, proof uint64) bool {
	return isHashSolved(difficulty, Hash(prevProof, proof))
}

// Search finds the first proof, counting up from 1, that solves the puzzle
// for the previous proof. The search has no upper bound and only stops early
// when the context is cancelled.
func Search(ctx context.Context, difficulty uint, prevProof uint64, ev EventHandler) (uint64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Search: MINING: started: prevProof[%d]: difficulty[%d]", prevProof, difficulty)

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	for proof := uint64(1); ; proof++ {
		if proof%reportEvery == 0 {
			ev("pow: Search: MINING: attempts[%d]", proof)

			// Checking on every attempt costs more than the hash itself.
			if ctx.Err() != nil {
				ev("pow: Search: MINING: CANCELLED")
				return 0, ctx.Err()
			}
		}

		if Valid(difficulty, prevProof, proof) {
			ev("pow: Search: MINING: SOLVED: prevProof[%d]: proof[%d]", prevProof, proof)
			return proof, nil
		}
	}
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}
