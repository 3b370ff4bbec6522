package chain

import (
	"fmt"
	"sync"
)

// PoolError is returned when a submitted transaction is malformed. The
// transaction never enters the pool.
type PoolError struct {
	Reason string
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

// TipReader is the read-only view of the ledger the pool needs to
// estimate which block a submitted transaction will land in.
type TipReader interface {
	Tip() Block
}

// TransactionPool stages unconfirmed transactions until they are drained
// into the next block. Submit may be called concurrently from many
// goroutines; Drain is linearizable with respect to Submit, so every
// submitted transaction lands in exactly one drained batch.
type TransactionPool struct {
	tip TipReader

	mu      sync.Mutex
	pending []Transaction
}

func NewTransactionPool(tip TipReader) *TransactionPool {
	return &TransactionPool{tip: tip}
}

// Submit validates tx and queues it for inclusion in a future block. The
// returned index is the next block index at submission time, a
// best-effort estimate: a concurrent drain can push the transaction into
// a later block.
func (p *TransactionPool) Submit(tx Transaction) (uint64, error) {
	if err := checkTransactionFields(tx); err != nil {
		return 0, &PoolError{Reason: err.Error()}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, tx)
	return p.tip.Tip().Index + 1, nil
}

// Drain atomically takes the current pending batch, in submission order,
// and resets the pool to empty. The pool retains no reference to the
// returned transactions.
func (p *TransactionPool) Drain() []Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	batch := p.pending
	p.pending = nil
	return batch
}

// Requeue puts a previously drained batch back at the front of the pool.
// Used when block production fails after the drain, so the batch is not
// lost and keeps its position ahead of later submissions.
func (p *TransactionPool) Requeue(txs []Transaction) {
	if len(txs) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(append([]Transaction{}, txs...), p.pending...)
}

// Len returns the number of pending transactions.
func (p *TransactionPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
