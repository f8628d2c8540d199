package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/ledger"
	"github.com/ardanlabs/coliseum/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// difficulty keeps the tests fast while still exercising real hashing.
const difficulty = 2

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a ledger.")
	{
		l := ledger.New(ledger.Config{Difficulty: difficulty})

		if l.Length() != 1 {
			t.Fatalf("\t%s\tShould have a chain of length 1: got %d", failed, l.Length())
		}
		t.Logf("\t%s\tShould have a chain of length 1.", success)

		last, err := l.LastBlock()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to get the last block: %v", failed, err)
		}

		if last.Index != 1 || last.Proof != 1 || last.PreviousHash != "1" || len(last.Transactions) != 0 {
			t.Fatalf("\t%s\tShould hold the genesis block: got %s", failed, last)
		}
		t.Logf("\t%s\tShould hold the genesis block.", success)
	}
}

func Test_CreateBlock(t *testing.T) {
	t.Log("Given the need to seal the mempool into a block.")
	{
		l := ledger.New(ledger.Config{Difficulty: 0})

		tx1 := database.NewTx("A", "B", 10)
		tx2 := database.NewTx("B", "C", 3)
		l.AddTransaction(tx1)
		l.AddTransaction(tx2)

		last, _ := l.LastBlock()
		block := l.CreateBlock(last.Hash(), 1)

		if block.Index != 2 {
			t.Fatalf("\t%s\tShould have index 2: got %d", failed, block.Index)
		}
		t.Logf("\t%s\tShould have index 2.", success)

		if len(block.Transactions) != 2 || block.Transactions[0] != tx1 || block.Transactions[1] != tx2 {
			t.Fatalf("\t%s\tShould hold [tx1, tx2] in order: got %v", failed, block.Transactions)
		}
		t.Logf("\t%s\tShould hold [tx1, tx2] in order.", success)

		if l.MempoolLength() != 0 {
			t.Fatalf("\t%s\tShould leave the mempool empty: got %d", failed, l.MempoolLength())
		}
		t.Logf("\t%s\tShould leave the mempool empty.", success)

		if !l.IsChainValid(l.Chain()) {
			t.Fatalf("\t%s\tShould produce a valid chain at difficulty 0.", failed)
		}
		t.Logf("\t%s\tShould produce a valid chain at difficulty 0.", success)
	}
}

func Test_MineEndToEnd(t *testing.T) {
	t.Log("Given the need to mine a block with a reward.")
	{
		l := ledger.New(ledger.Config{Difficulty: difficulty})

		tx := database.NewTx("A", "B", 10)
		reward := database.NewRewardTx("0", 1)

		l.AddTransaction(tx)

		block, err := l.MineNextBlock(context.Background(), reward)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		exp := []database.Tx{{Sender: "A", Receiver: "B", Amount: 10}, {Sender: "0", Receiver: "0", Amount: 1}}
		if len(block.Transactions) != 2 || block.Transactions[0] != exp[0] || block.Transactions[1] != exp[1] {
			t.Fatalf("\t%s\tShould seal the reward last: got %v", failed, block.Transactions)
		}
		t.Logf("\t%s\tShould seal the reward last.", success)

		if l.Length() != 2 {
			t.Fatalf("\t%s\tShould have a chain of length 2: got %d", failed, l.Length())
		}
		t.Logf("\t%s\tShould have a chain of length 2.", success)

		if l.MempoolLength() != 0 {
			t.Fatalf("\t%s\tShould leave the mempool empty: got %d", failed, l.MempoolLength())
		}
		t.Logf("\t%s\tShould leave the mempool empty.", success)

		chain := l.Chain()
		if block.PreviousHash != chain[0].Hash() || !pow.Valid(difficulty, chain[0].Proof, block.Proof) {
			t.Fatalf("\t%s\tShould link to genesis with a valid proof.", failed)
		}
		t.Logf("\t%s\tShould link to genesis with a valid proof.", success)
	}
}

func Test_MineCancel(t *testing.T) {
	l := ledger.New(ledger.Config{Difficulty: pow.MaxDifficulty})
	l.AddTransaction(database.NewTx("A", "B", 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.MineNextBlock(ctx, database.NewRewardTx("0", 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("\t%s\tShould stop mining when cancelled: got %v", failed, err)
	}
	t.Logf("\t%s\tShould stop mining when cancelled.", success)

	if l.Length() != 1 || l.MempoolLength() != 1 {
		t.Fatalf("\t%s\tShould leave the ledger untouched: length[%d] mempool[%d]", failed, l.Length(), l.MempoolLength())
	}
	t.Logf("\t%s\tShould leave the ledger untouched.", success)
}

func Test_ValidateChain(t *testing.T) {
	t.Log("Given the need to validate chains.")
	{
		l := mineChain(t, 4)

		tt := []struct {
			name   string
			mutate func(chain []database.Block)
			index  uint64
			err    error
		}{
			{
				name:   "brokenlink",
				mutate: func(chain []database.Block) { chain[1].PreviousHash = database.ZeroHash },
				index:  2,
				err:    ledger.ErrBrokenLink,
			},
			{
				name:   "badproof",
				mutate: func(chain []database.Block) { chain[3].Proof = badProof(chain[2].Proof) },
				index:  4,
				err:    ledger.ErrInvalidProof,
			},
			{
				name:   "genesisindex",
				mutate: func(chain []database.Block) { chain[0].Index = 7 },
				index:  1,
				err:    ledger.ErrBadIndex,
			},
			{
				name:   "badindex",
				mutate: func(chain []database.Block) { chain[2].Index = 1003 },
				index:  3,
				err:    ledger.ErrBadIndex,
			},
			{
				name:   "tampered",
				mutate: func(chain []database.Block) { chain[2].Transactions = []database.Tx{database.NewTx("X", "Y", 99)} },
				index:  4,
				err:    ledger.ErrBrokenLink,
			},
		}

		for testID, tst := range tt {
			f := func(t *testing.T) {
				chain := l.Chain()
				tst.mutate(chain)

				err := l.ValidateChain(chain)

				var ve *ledger.ValidationError
				if !errors.As(err, &ve) || !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould fail with %v: got %v", failed, testID, tst.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould fail with %v.", success, testID, tst.err)

				if ve.Index != tst.index {
					t.Fatalf("\t%s\tTest %d:\tShould report block %d: got %d", failed, testID, tst.index, ve.Index)
				}
				t.Logf("\t%s\tTest %d:\tShould report block %d.", success, testID, tst.index)

				if l.IsChainValid(chain) {
					t.Fatalf("\t%s\tTest %d:\tShould not report the chain as valid.", failed, testID)
				}
			}

			t.Run(tst.name, f)
		}

		if err := l.ValidateChain(nil); !errors.Is(err, ledger.ErrEmptyChain) {
			t.Fatalf("\t%s\tShould reject an empty chain: got %v", failed, err)
		}
		t.Logf("\t%s\tShould reject an empty chain.", success)

		if !l.IsChainValid(l.Chain()[:1]) {
			t.Fatalf("\t%s\tShould accept a chain holding only genesis.", failed)
		}
		t.Logf("\t%s\tShould accept a chain holding only genesis.", success)
	}
}

func Test_LongestWins(t *testing.T) {
	t.Log("Given the need to adopt the longest valid chain.")
	{
		remote := mineChain(t, 5)

		t.Run("longer", func(t *testing.T) {
			local := mineChain(t, 2)

			replaced, err := local.ReplaceChain(remote.Chain())
			if err != nil || !replaced {
				t.Fatalf("\t%s\tShould adopt a longer valid chain: replaced[%v] err[%v]", failed, replaced, err)
			}
			t.Logf("\t%s\tShould adopt a longer valid chain.", success)

			if local.Length() != 5 {
				t.Fatalf("\t%s\tShould have a chain of length 5: got %d", failed, local.Length())
			}
			t.Logf("\t%s\tShould have a chain of length 5.", success)
		})

		t.Run("broken", func(t *testing.T) {
			local := mineChain(t, 2)
			before := local.Chain()

			candidate := remote.Chain()
			candidate[2].PreviousHash = database.ZeroHash

			replaced, err := local.ReplaceChain(candidate)
			if replaced || !errors.Is(err, ledger.ErrBrokenLink) {
				t.Fatalf("\t%s\tShould reject a chain with a broken link: replaced[%v] err[%v]", failed, replaced, err)
			}
			t.Logf("\t%s\tShould reject a chain with a broken link.", success)

			var ve *ledger.ValidationError
			if !errors.As(err, &ve) || ve.Index != 3 {
				t.Fatalf("\t%s\tShould report the break at block 3: got %v", failed, err)
			}
			t.Logf("\t%s\tShould report the break at block 3.", success)

			after := local.Chain()
			if len(after) != 2 || after[1].Hash() != before[1].Hash() {
				t.Fatalf("\t%s\tShould leave the local chain untouched.", failed)
			}
			t.Logf("\t%s\tShould leave the local chain untouched.", success)
		})

		t.Run("renumbered", func(t *testing.T) {
			local := mineChain(t, 2)

			// Renumber the blocks and relink them so every hash and proof
			// still checks out.
			candidate := remote.Chain()
			for i := range candidate {
				candidate[i].Index = uint64(1000 + i)
				if i > 0 {
					candidate[i].PreviousHash = candidate[i-1].Hash()
				}
			}

			replaced, err := local.ReplaceChain(candidate)
			if replaced || !errors.Is(err, ledger.ErrBadIndex) {
				t.Fatalf("\t%s\tShould reject a chain with blocks out of position: replaced[%v] err[%v]", failed, replaced, err)
			}
			t.Logf("\t%s\tShould reject a chain with blocks out of position.", success)

			block, err := local.MineNextBlock(context.Background(), database.NewRewardTx("0", 1))
			if err != nil || block.Index != 3 {
				t.Fatalf("\t%s\tShould keep numbering local blocks by position: block[%v] err[%v]", failed, block, err)
			}
			t.Logf("\t%s\tShould keep numbering local blocks by position.", success)
		})

		t.Run("equal", func(t *testing.T) {
			local := mineChain(t, 2)
			other := mineChain(t, 2)

			replaced, err := local.ReplaceChain(other.Chain())
			if replaced || err != nil {
				t.Fatalf("\t%s\tShould ignore an equal length chain: replaced[%v] err[%v]", failed, replaced, err)
			}
			t.Logf("\t%s\tShould ignore an equal length chain.", success)

			candidate := other.Chain()
			candidate[1].PreviousHash = database.ZeroHash
			if replaced, _ := local.ReplaceChain(candidate); replaced {
				t.Fatalf("\t%s\tShould ignore an equal length chain regardless of validity.", failed)
			}
			t.Logf("\t%s\tShould ignore an equal length chain regardless of validity.", success)
		})
	}
}

func Test_ReplaceClearsSealed(t *testing.T) {
	remote := ledger.New(ledger.Config{Difficulty: 0})
	local := ledger.New(ledger.Config{Difficulty: 0})

	shared := database.NewTx("A", "B", 10)
	mine := database.NewTx("C", "D", 2)

	remote.AddTransaction(shared)
	if _, err := remote.MineNextBlock(context.Background(), database.NewRewardTx("r", 1)); err != nil {
		t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
	}

	local.AddTransaction(shared)
	local.AddTransaction(mine)

	if replaced, err := local.ReplaceChain(remote.Chain()); !replaced || err != nil {
		t.Fatalf("\t%s\tShould adopt the longer chain: replaced[%v] err[%v]", failed, replaced, err)
	}

	pool := local.Mempool()
	if len(pool) != 1 || pool[0] != mine {
		t.Fatalf("\t%s\tShould keep only unsealed transactions: got %v", failed, pool)
	}
	t.Logf("\t%s\tShould keep only unsealed transactions.", success)
}

func Test_AcceptBlock(t *testing.T) {
	t.Log("Given the need to accept blocks proposed by peers.")
	{
		remote := mineChain(t, 4)
		blocks := remote.Chain()

		local := ledger.New(ledger.Config{Difficulty: difficulty})
		if _, err := local.ReplaceChain(blocks[:2]); err != nil {
			t.Fatalf("\t%s\tShould be able to seed the local chain: %v", failed, err)
		}

		if err := local.AcceptBlock(blocks[3]); !errors.Is(err, ledger.ErrBlockAhead) {
			t.Fatalf("\t%s\tShould report a block further ahead: got %v", failed, err)
		}
		t.Logf("\t%s\tShould report a block further ahead.", success)

		if err := local.AcceptBlock(blocks[1]); !errors.Is(err, ledger.ErrBlockStale) {
			t.Fatalf("\t%s\tShould report a stale block: got %v", failed, err)
		}
		t.Logf("\t%s\tShould report a stale block.", success)

		bad := blocks[2]
		bad.PreviousHash = database.ZeroHash
		if err := local.AcceptBlock(bad); !errors.Is(err, ledger.ErrBrokenLink) {
			t.Fatalf("\t%s\tShould reject a block that does not link: got %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a block that does not link.", success)

		local.AddTransaction(blocks[2].Transactions[0])
		if err := local.AcceptBlock(blocks[2]); err != nil {
			t.Fatalf("\t%s\tShould accept the next block: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the next block.", success)

		if local.Length() != 3 || local.MempoolLength() != 0 {
			t.Fatalf("\t%s\tShould extend the chain and clear sealed transactions: length[%d] mempool[%d]", failed, local.Length(), local.MempoolLength())
		}
		t.Logf("\t%s\tShould extend the chain and clear sealed transactions.", success)
	}
}

func Test_ConcurrentMining(t *testing.T) {
	t.Log("Given the need to mine while transactions arrive.")
	{
		l := ledger.New(ledger.Config{Difficulty: 1})

		const miners = 4
		const txs = 200

		var wg sync.WaitGroup
		wg.Add(miners + 1)

		go func() {
			defer wg.Done()
			for i := range txs {
				l.AddTransaction(database.NewTx("A", "B", int64(i)))
			}
		}()

		for range miners {
			go func() {
				defer wg.Done()
				for range 5 {
					if _, err := l.MineNextBlock(context.Background(), database.NewRewardTx("0", 1)); err != nil {
						t.Errorf("\t%s\tShould be able to mine: %v", failed, err)
						return
					}
				}
			}()
		}

		wg.Wait()

		chain := l.Chain()
		if err := l.ValidateChain(chain); err != nil {
			t.Fatalf("\t%s\tShould produce a valid chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould produce a valid chain.", success)

		if len(chain) != 1+miners*5 {
			t.Fatalf("\t%s\tShould seal every mined block: got %d", failed, len(chain))
		}
		t.Logf("\t%s\tShould seal every mined block.", success)

		seen := make(map[int64]int)
		for _, block := range chain {
			for _, tx := range block.Transactions {
				if tx.Sender != database.RewardSender {
					seen[tx.Amount]++
				}
			}
		}
		for _, tx := range l.Mempool() {
			seen[tx.Amount]++
		}

		for i := range txs {
			if seen[int64(i)] != 1 {
				t.Fatalf("\t%s\tShould hold tx %d exactly once: got %d", failed, i, seen[int64(i)])
			}
		}
		t.Logf("\t%s\tShould hold every transaction exactly once.", success)
	}
}

// =============================================================================

// mineChain builds a ledger with a chain of the specified length, each block
// carrying one transaction and a reward.
func mineChain(t *testing.T, length int) *ledger.Ledger {
	t.Helper()

	l := ledger.New(ledger.Config{Difficulty: difficulty})

	for i := 1; i < length; i++ {
		l.AddTransaction(database.NewTx("A", "B", int64(i)))
		if _, err := l.MineNextBlock(context.Background(), database.NewRewardTx("0", 1)); err != nil {
			t.Fatalf("\t%s\tShould be able to mine block %d: %v", failed, i+1, err)
		}
	}

	return l
}

// badProof returns a proof that does not solve the puzzle for prevProof.
func badProof(prevProof uint64) uint64 {
	for proof := uint64(1); ; proof++ {
		if !pow.Valid(difficulty, prevProof, proof) {
			return proof
		}
	}
}
