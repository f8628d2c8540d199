package database_test

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to construct the genesis block.")
	{
		block := database.NewGenesisBlock()

		if block.Index != 1 || block.Proof != 1 || block.PreviousHash != "1" {
			t.Fatalf("\t%s\tShould have index 1, proof 1 and previous hash \"1\": got %s", failed, block)
		}
		t.Logf("\t%s\tShould have index 1, proof 1 and previous hash \"1\".", success)

		if len(block.Transactions) != 0 {
			t.Fatalf("\t%s\tShould have no transactions: got %d", failed, len(block.Transactions))
		}
		t.Logf("\t%s\tShould have no transactions.", success)

		if !block.IsGenesis() {
			t.Fatalf("\t%s\tShould report itself as genesis.", failed)
		}
		t.Logf("\t%s\tShould report itself as genesis.", success)
	}
}

func Test_CanonicalForm(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		exp   string
	}

	tt := []table{
		{
			name: "fraction",
			block: database.Block{
				Index:        2,
				Timestamp:    1700000000.5,
				Transactions: []database.Tx{{Sender: "A", Receiver: "B", Amount: 10}},
				Proof:        35293,
				PreviousHash: "abc",
			},
			exp: `{"index":2,"timestamp":1700000000.5,"transactions":[{"sender":"A","receiver":"B","amount":10}],"proof":35293,"previous_hash":"abc"}`,
		},
		{
			name: "whole",
			block: database.Block{
				Index:        1,
				Timestamp:    1700000000,
				Proof:        1,
				PreviousHash: "1",
			},
			exp: `{"index":1,"timestamp":1700000000.0,"transactions":[],"proof":1,"previous_hash":"1"}`,
		},
		{
			name: "html",
			block: database.Block{
				Index:        3,
				Timestamp:    1.25,
				Transactions: []database.Tx{{Sender: "<a>", Receiver: "b&c", Amount: -4}},
				Proof:        7,
				PreviousHash: "ff",
			},
			exp: `{"index":3,"timestamp":1.25,"transactions":[{"sender":"<a>","receiver":"b&c","amount":-4}],"proof":7,"previous_hash":"ff"}`,
		},
	}

	t.Log("Given the need to hash blocks from their canonical form.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				sum := sha256.Sum256([]byte(tst.exp))
				exp := hex.EncodeToString(sum[:])

				got := tst.block.Hash()
				if got != exp {
					data, _ := json.Marshal(tst.block)
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, data)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould hash the canonical form.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould hash the canonical form.", success, testID)

				if again := tst.block.Hash(); again != got {
					t.Fatalf("\t%s\tTest %d:\tShould produce the same hash twice: %s != %s", failed, testID, again, got)
				}
				t.Logf("\t%s\tTest %d:\tShould produce the same hash twice.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_HashChangesWithFields(t *testing.T) {
	block := database.Block{Index: 2, Timestamp: 10.5, Proof: 100, PreviousHash: "abc"}

	other := block
	other.Proof++

	if block.Hash() == other.Hash() {
		t.Fatalf("\t%s\tShould produce a different hash when the proof changes.", failed)
	}
	t.Logf("\t%s\tShould produce a different hash when the proof changes.", success)

	if len(block.Hash()) != 64 {
		t.Fatalf("\t%s\tShould produce a 64 character hex digest: got %d", failed, len(block.Hash()))
	}
	t.Logf("\t%s\tShould produce a 64 character hex digest.", success)
}

func Test_DecodeChain(t *testing.T) {
	t.Log("Given the need to decode chains received from peers.")
	{
		genesis := database.NewGenesisBlock()
		next := database.Block{
			Index:        2,
			Timestamp:    database.Now(),
			Transactions: []database.Tx{database.NewTx("A", "B", 10), database.NewRewardTx("0", 1)},
			Proof:        533,
			PreviousHash: genesis.Hash(),
		}

		data, err := json.Marshal([]database.Block{genesis, next})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal a chain: %v", failed, err)
		}

		chain, err := database.DecodeChain(data)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to decode a chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to decode a chain.", success)

		if chain[0].Hash() != genesis.Hash() || chain[1].Hash() != next.Hash() {
			t.Fatalf("\t%s\tShould keep the same hashes after a round trip.", failed)
		}
		t.Logf("\t%s\tShould keep the same hashes after a round trip.", success)

		for _, bad := range []string{`{"index":1}`, `[]`, `[{"proof":1}]`, `not json`} {
			if _, err := database.DecodeChain([]byte(bad)); !errors.Is(err, database.ErrMalformed) {
				t.Fatalf("\t%s\tShould reject %q as malformed: got %v", failed, bad, err)
			}
			t.Logf("\t%s\tShould reject %q as malformed.", success, bad)
		}

		if _, err := database.DecodeTx([]byte(`{"sender":`)); !errors.Is(err, database.ErrMalformed) {
			t.Fatalf("\t%s\tShould reject a truncated transaction: got %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a truncated transaction.", success)
	}
}
