// Package store provides chain.BlockStore implementations: an in-memory
// store for tests and ephemeral nodes, and a goleveldb-backed store for
// durable persistence.
package store

import (
	"fmt"
	"sync"

	"ledgercore/chain"
)

// MemoryBlockStore keeps blocks in memory, ordered by index. Safe for
// concurrent use.
type MemoryBlockStore struct {
	mu     sync.RWMutex
	blocks []chain.Block
}

var _ chain.BlockStore = (*MemoryBlockStore)(nil)

func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{}
}

func (m *MemoryBlockStore) PutBlock(b chain.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-flushing an existing prefix is a no-op overwrite, matching the
	// keyed semantics of the durable store.
	for i := range m.blocks {
		if m.blocks[i].Index == b.Index {
			m.blocks[i] = b
			return nil
		}
	}

	if n := len(m.blocks); n > 0 && b.Index != m.blocks[n-1].Index+1 {
		return fmt.Errorf("put block %d: store tip is %d", b.Index, m.blocks[n-1].Index)
	}
	m.blocks = append(m.blocks, b)
	return nil
}

func (m *MemoryBlockStore) Blocks() ([]chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]chain.Block, len(m.blocks))
	copy(out, m.blocks)
	return out, nil
}

func (m *MemoryBlockStore) Close() error {
	return nil
}
