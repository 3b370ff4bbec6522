package chain

import "time"

// NewGenesisBlock builds the fixed first block of a chain: index 1, the
// sentinel previous-hash linkage, the trivial seed proof, and no
// transactions. If ts is zero the current wall clock is used.
func NewGenesisBlock(ts int64) Block {
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return Block{
		Index:        GenesisIndex,
		Timestamp:    ts,
		Transactions: []Transaction{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
}
