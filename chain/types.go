package chain

const (
	// GenesisIndex is the index of the first block in every chain.
	GenesisIndex = 1

	// GenesisPreviousHash is the sentinel linkage of the genesis block,
	// which has no parent to hash.
	GenesisPreviousHash = "1"

	// GenesisProof is the trivial proof seeding the proof-of-work chain.
	GenesisProof = 100
)

// Transaction is a single transfer staged in the pool and later sealed
// into a block. Immutable once created; Sender and Recipient are opaque
// identifiers, authentication happens before a transaction reaches the core.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// Block is one element of the chain. A block's own hash is never stored:
// it is recomputed from the canonical encoding whenever needed, so it can
// never drift from the block's content.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}
