package pow_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/coliseum/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ZeroDifficulty(t *testing.T) {
	t.Log("Given the need to use a trivial difficulty as a test fixture.")
	{
		for _, prev := range []uint64{0, 1, 42, 1 << 40} {
			for _, proof := range []uint64{0, 1, 7, 99999} {
				if !pow.Valid(0, prev, proof) {
					t.Fatalf("\t%s\tShould accept every proof: prev[%d] proof[%d]", failed, prev, proof)
				}
			}
		}
		t.Logf("\t%s\tShould accept every proof.", success)

		proof, err := pow.Search(context.Background(), 0, 533, nil)
		if err != nil || proof != 1 {
			t.Fatalf("\t%s\tShould find proof 1 immediately: got %d, %v", failed, proof, err)
		}
		t.Logf("\t%s\tShould find proof 1 immediately.", success)
	}
}

func Test_Search(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		prevProofs []uint64
	}

	tt := []table{
		{name: "one", difficulty: 1, prevProofs: []uint64{1, 2, 3, 100}},
		{name: "three", difficulty: 3, prevProofs: []uint64{1, 35293, 7}},
	}

	t.Log("Given the need to find proofs for a real difficulty.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				for _, prev := range tst.prevProofs {
					proof, err := pow.Search(context.Background(), tst.difficulty, prev, nil)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to search: %v", failed, testID, err)
					}

					if !pow.Valid(tst.difficulty, prev, proof) {
						t.Fatalf("\t%s\tTest %d:\tShould find a valid proof for %d: got %d", failed, testID, prev, proof)
					}

					hash := pow.Hash(prev, proof)
					if !strings.HasPrefix(hash, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have leading zeros: %s", failed, testID, hash)
					}

					for smaller := uint64(1); smaller < proof; smaller++ {
						if pow.Valid(tst.difficulty, prev, smaller) {
							t.Fatalf("\t%s\tTest %d:\tShould find the first proof: %d is valid before %d", failed, testID, smaller, proof)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould find the first valid proof for %d: %d", success, testID, prev, proof)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SearchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pow.Search(ctx, pow.MaxDifficulty, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("\t%s\tShould stop when the context is cancelled: got %v", failed, err)
	}
	t.Logf("\t%s\tShould stop when the context is cancelled.", success)
}

func Test_DifficultyBounds(t *testing.T) {
	if pow.Valid(pow.MaxDifficulty+1, 1, 1) {
		t.Fatalf("\t%s\tShould reject a difficulty longer than the hash.", failed)
	}
	t.Logf("\t%s\tShould reject a difficulty longer than the hash.", success)

	sum := sha256.Sum256([]byte("1235"))
	if got, exp := pow.Hash(12, 35), hex.EncodeToString(sum[:]); got != exp {
		t.Fatalf("\t%s\tShould hash the concatenated proofs: got %s, exp %s", failed, got, exp)
	}
	t.Logf("\t%s\tShould hash the concatenated proofs.", success)
}
