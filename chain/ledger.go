package chain

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config holds the ledger's consensus parameters.
type Config struct {
	// Difficulty is the number of leading zero hex characters a proof
	// digest must carry. Expected search cost grows by a factor of 16
	// per unit.
	Difficulty int

	// GenesisTimestamp seeds the genesis block; zero means "now".
	GenesisTimestamp int64
}

func DefaultConfig() Config {
	return Config{Difficulty: 4}
}

// BlockStore is the persistence surface the ledger flushes to and loads
// from. Implementations live in chain/store.
type BlockStore interface {
	PutBlock(b Block) error
	Blocks() ([]Block, error)
	Close() error
}

// Ledger owns the chain sequence. It is the only component allowed to
// mutate it: appends are serialized through an exclusive lock, and every
// read hands out value copies, never a handle into the live slice.
type Ledger struct {
	cfg Config
	log *logrus.Logger

	mu     sync.RWMutex
	blocks []Block
}

// NewLedger constructs a ledger seeded with the genesis block. A nil
// logger discards all output.
func NewLedger(cfg Config, log *logrus.Logger) *Ledger {
	l := &Ledger{
		cfg: cfg,
		log: ensureLogger(log),
	}
	l.blocks = []Block{NewGenesisBlock(cfg.GenesisTimestamp)}
	return l
}

// Load rebuilds a ledger from a persisted chain, re-validating every
// invariant before trusting it. The persisted encoding is the canonical
// one used for hashing, so the loaded chain reproduces identical digests.
func Load(st BlockStore, cfg Config, log *logrus.Logger) (*Ledger, error) {
	blocks, err := st.Blocks()
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}
	if err := ValidateChain(blocks, cfg.Difficulty); err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}

	l := &Ledger{
		cfg:    cfg,
		log:    ensureLogger(log),
		blocks: blocks,
	}
	l.log.WithFields(logrus.Fields{
		"height": len(blocks),
		"tip":    shortHash(HashBlock(&blocks[len(blocks)-1])),
	}).Info("chain loaded")
	return l, nil
}

// AppendBlock validates the candidate against the current tip and, on
// success, atomically extends the chain. On failure the chain is
// unchanged. At most one append executes at a time; concurrent callers
// queue on the lock.
func (l *Ledger) AppendBlock(b Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tip := &l.blocks[len(l.blocks)-1]
	if err := ValidateBlock(&b, tip, l.cfg.Difficulty); err != nil {
		l.log.WithFields(logrus.Fields{
			"index": b.Index,
			"error": err,
		}).Warn("block rejected")
		return err
	}

	// The chain takes exclusive ownership of the transaction sequence.
	b.Transactions = cloneTransactions(b.Transactions)
	l.blocks = append(l.blocks, b)

	l.log.WithFields(logrus.Fields{
		"index": b.Index,
		"hash":  shortHash(HashBlock(&b)),
		"txs":   len(b.Transactions),
	}).Info("block appended")
	return nil
}

// Tip returns a copy of the last block. Concurrent with appends, callers
// observe either the pre- or post-append tip, never a torn block.
func (l *Ledger) Tip() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyBlock(l.blocks[len(l.blocks)-1])
}

// Snapshot returns a copy of the full chain, genesis first, for
// persistence or broadcast.
func (l *Ledger) Snapshot() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Block, len(l.blocks))
	for i := range l.blocks {
		out[i] = copyBlock(l.blocks[i])
	}
	return out
}

// Height returns the number of blocks in the chain.
func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.blocks))
}

// Difficulty returns the configured proof-of-work difficulty.
func (l *Ledger) Difficulty() int {
	return l.cfg.Difficulty
}

// Flush writes the current chain to st, one record per block, in the
// canonical encoding. The snapshot is taken atomically; appends that
// race with a flush land in the next one.
func (l *Ledger) Flush(st BlockStore) error {
	for _, b := range l.Snapshot() {
		if err := st.PutBlock(b); err != nil {
			return fmt.Errorf("flush block %d: %w", b.Index, err)
		}
	}
	return nil
}

func copyBlock(b Block) Block {
	b.Transactions = cloneTransactions(b.Transactions)
	return b
}

func cloneTransactions(txs []Transaction) []Transaction {
	if txs == nil {
		return nil
	}
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func ensureLogger(log *logrus.Logger) *logrus.Logger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
