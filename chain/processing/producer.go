// Package processing runs the block production pipeline: drain the pool,
// search for a proof over the current tip, validate and append.
package processing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"ledgercore/chain"
)

// Config bounds a single production round.
type Config struct {
	// IterationBudget caps how many candidate nonces one proof search
	// may try before giving up with chain.ErrBudgetExhausted.
	IterationBudget uint64
}

func DefaultConfig() Config {
	return Config{IterationBudget: 1 << 24}
}

// BlockProducer turns the pending pool into appended blocks. It runs on
// the caller's goroutine; callers start it off the submit/read path so
// pool and ledger stay responsive during a search.
type BlockProducer struct {
	pool   *chain.TransactionPool
	ledger *chain.Ledger
	cfg    Config
	log    *logrus.Logger
}

func NewBlockProducer(pool *chain.TransactionPool, ledger *chain.Ledger, cfg Config, log *logrus.Logger) *BlockProducer {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &BlockProducer{pool: pool, ledger: ledger, cfg: cfg, log: log}
}

// ProduceBlock drains the pool, searches for a proof over the current
// tip, and appends the resulting block. On any failure after the drain
// (cancelled or exhausted search, rejected block) the drained batch is
// requeued so no transaction is lost; a cancelled search typically means
// a competing block arrived and the caller should retry against the new
// tip.
func (p *BlockProducer) ProduceBlock(ctx context.Context) (chain.Block, error) {
	batch := p.pool.Drain()
	tip := p.ledger.Tip()

	proof, err := chain.FindProof(ctx, tip.Proof, p.ledger.Difficulty(), p.cfg.IterationBudget)
	if err != nil {
		p.pool.Requeue(batch)
		p.log.WithFields(logrus.Fields{
			"tip":   tip.Index,
			"error": err,
		}).Warn("proof search failed, batch requeued")
		return chain.Block{}, fmt.Errorf("produce block %d: %w", tip.Index+1, err)
	}

	block := chain.Block{
		Index:        tip.Index + 1,
		Timestamp:    time.Now().Unix(),
		Transactions: batch,
		Proof:        proof,
		PreviousHash: chain.HashBlock(&tip),
	}

	if err := p.ledger.AppendBlock(block); err != nil {
		p.pool.Requeue(batch)
		return chain.Block{}, fmt.Errorf("produce block %d: %w", block.Index, err)
	}

	p.log.WithFields(logrus.Fields{
		"index": block.Index,
		"proof": proof,
		"txs":   len(batch),
	}).Info("block produced")
	return block, nil
}
