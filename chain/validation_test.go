package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testDifficulty = 1

// nextBlock mines a valid successor of tip at testDifficulty.
func nextBlock(t *testing.T, tip Block, txs []Transaction) Block {
	t.Helper()

	proof, err := FindProof(context.Background(), tip.Proof, testDifficulty, 1<<20)
	if err != nil {
		t.Fatalf("FindProof() failed: %v", err)
	}
	return Block{
		Index:        tip.Index + 1,
		Timestamp:    time.Now().Unix(),
		Transactions: txs,
		Proof:        proof,
		PreviousHash: HashBlock(&tip),
	}
}

func TestValidateBlock(t *testing.T) {
	genesis := NewGenesisBlock(0)
	valid := nextBlock(t, genesis, []Transaction{{Sender: "Alice", Recipient: "Bob", Amount: 10}})

	tests := []struct {
		name        string
		mutate      func(b *Block)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid block passes",
			mutate: func(b *Block) {},
		},
		{
			name:        "index gap",
			mutate:      func(b *Block) { b.Index = 5 },
			wantErr:     true,
			errContains: "index",
		},
		{
			name:        "forged previous hash",
			mutate:      func(b *Block) { b.PreviousHash = "deadbeef" },
			wantErr:     true,
			errContains: "previous hash",
		},
		{
			name:        "wrong proof",
			mutate:      func(b *Block) { b.Proof = valid.Proof + 1 },
			wantErr:     true,
			errContains: "proof",
		},
		{
			name: "malformed transaction inside block",
			mutate: func(b *Block) {
				b.Transactions = []Transaction{{Sender: "", Recipient: "Bob", Amount: 10}}
			},
			wantErr:     true,
			errContains: "transaction 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := valid
			candidate.Transactions = append([]Transaction{}, valid.Transactions...)
			tt.mutate(&candidate)

			err := ValidateBlock(&candidate, &genesis, testDifficulty)

			if tt.wantErr {
				if err == nil {
					t.Fatal("ValidateBlock() expected error, got nil")
				}
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("ValidateBlock() error = %T, want *ValidationError", err)
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("ValidateBlock() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateBlock() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateBlockWrongProofDigest(t *testing.T) {
	// The wrong-proof case above could in principle pass the predicate
	// by luck; this pins a proof whose digest is known not to meet
	// difficulty 1 (sha256("1000") has no leading zero).
	genesis := NewGenesisBlock(0)
	candidate := nextBlock(t, genesis, nil)
	candidate.Proof = 0

	err := ValidateBlock(&candidate, &genesis, testDifficulty)
	if err == nil || !contains(err.Error(), "proof") {
		t.Errorf("ValidateBlock() = %v, want proof failure", err)
	}
}

func TestValidateChain(t *testing.T) {
	genesis := NewGenesisBlock(0)
	second := nextBlock(t, genesis, []Transaction{{Sender: "Alice", Recipient: "Bob", Amount: 10}})
	third := nextBlock(t, second, nil)

	t.Run("valid chain passes", func(t *testing.T) {
		if err := ValidateChain([]Block{genesis, second, third}, testDifficulty); err != nil {
			t.Errorf("ValidateChain() unexpected error = %v", err)
		}
	})

	t.Run("empty chain fails", func(t *testing.T) {
		if err := ValidateChain(nil, testDifficulty); err == nil {
			t.Error("ValidateChain() expected error for empty chain")
		}
	})

	t.Run("wrong genesis index fails", func(t *testing.T) {
		badGenesis := genesis
		badGenesis.Index = 0
		if err := ValidateChain([]Block{badGenesis}, testDifficulty); err == nil {
			t.Error("ValidateChain() expected error for bad genesis index")
		}
	})

	t.Run("wrong genesis sentinel fails", func(t *testing.T) {
		badGenesis := genesis
		badGenesis.PreviousHash = "0"
		if err := ValidateChain([]Block{badGenesis}, testDifficulty); err == nil {
			t.Error("ValidateChain() expected error for bad genesis linkage")
		}
	})

	t.Run("tampered middle block fails", func(t *testing.T) {
		tampered := second
		tampered.Transactions = []Transaction{{Sender: "Mallory", Recipient: "Mallory", Amount: 999}}
		err := ValidateChain([]Block{genesis, tampered, third}, testDifficulty)
		if err == nil {
			t.Fatal("ValidateChain() expected error for tampered block")
		}
		// Tampering breaks the next block's linkage.
		if !contains(err.Error(), "block 2") {
			t.Errorf("ValidateChain() error = %v, want failure at block 2", err)
		}
	})
}
