package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Canonicalize produces a byte encoding of a record that depends only on
// its field names and values, never on construction or insertion order.
// The record is round-tripped through a generic JSON value so that every
// object encodes with its keys sorted by name. Hash stability and the
// persisted chain layout both rely on this encoding.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	// Decode numbers as json.Number so integer fields survive the
	// round-trip exactly; the default float64 decoding rounds values
	// above 2^53 and distinct records would encode identically.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	// encoding/json writes map keys in sorted order.
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

// Digest returns the lowercase hex sha256 of b.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashBlock is the block's content hash: the digest of its canonical
// encoding. Blocks are fixed-shape records, so canonicalization cannot
// fail; a failure here means a programming error in the Block type.
func HashBlock(b *Block) string {
	enc, err := Canonicalize(b)
	if err != nil {
		panic(fmt.Sprintf("block canonicalization failed: %v", err))
	}
	return Digest(enc)
}
