package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"ledgercore/chain"
)

// LevelBlockStore persists blocks in a leveldb database. Keys are
// big-endian block indexes so a forward iteration yields the chain in
// order; values are the same canonical encoding used for hashing, so a
// loaded chain reproduces identical digests.
type LevelBlockStore struct {
	db *leveldb.DB
}

var _ chain.BlockStore = (*LevelBlockStore)(nil)

// OpenLevelBlockStore opens (creating if needed) a leveldb database at
// path. The caller owns the store and must Close it.
func OpenLevelBlockStore(path string) (*LevelBlockStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open block store: %w", err)
	}
	return &LevelBlockStore{db: db}, nil
}

func (s *LevelBlockStore) PutBlock(b chain.Block) error {
	enc, err := chain.Canonicalize(b)
	if err != nil {
		return fmt.Errorf("put block %d: %w", b.Index, err)
	}
	if err := s.db.Put(indexKey(b.Index), enc, nil); err != nil {
		return fmt.Errorf("put block %d: %w", b.Index, err)
	}
	return nil
}

func (s *LevelBlockStore) Blocks() ([]chain.Block, error) {
	var blocks []chain.Block

	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		var b chain.Block
		if err := json.Unmarshal(iter.Value(), &b); err != nil {
			return nil, fmt.Errorf("decode block at key %x: %w", iter.Key(), err)
		}
		blocks = append(blocks, b)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate block store: %w", err)
	}
	return blocks, nil
}

func (s *LevelBlockStore) Close() error {
	return s.db.Close()
}

func indexKey(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
