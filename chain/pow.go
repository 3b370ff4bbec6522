package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Engine outcomes other than success.
var (
	// ErrBudgetExhausted is returned when the iteration budget is spent
	// without finding a passing candidate.
	ErrBudgetExhausted = errors.New("proof search budget exhausted")

	// ErrSearchCancelled is returned when the search is aborted through
	// its context, typically because a competing block arrived.
	ErrSearchCancelled = errors.New("proof search cancelled")
)

// cancelCheckInterval bounds how many hashes a search computes between
// context checks, so an external cancellation takes effect promptly.
const cancelCheckInterval = 4096

func proofDigest(lastProof, candidate uint64) string {
	return Digest([]byte(fmt.Sprintf("%d%d", lastProof, candidate)))
}

// MeetsDifficulty reports whether a hex digest satisfies the difficulty
// predicate: at least `difficulty` leading zero characters.
func MeetsDifficulty(digest string, difficulty int) bool {
	if difficulty < 0 || difficulty > len(digest) {
		return false
	}
	return strings.HasPrefix(digest, strings.Repeat("0", difficulty))
}

// FindProof searches candidate nonces from 0 upward until the digest of
// (lastProof, candidate) meets the difficulty predicate. The search is
// CPU-bound and potentially long; it cooperatively checks ctx every
// cancelCheckInterval iterations and gives up with ErrBudgetExhausted
// once budget candidates have been tried.
func FindProof(ctx context.Context, lastProof uint64, difficulty int, budget uint64) (uint64, error) {
	if budget == 0 {
		return 0, ErrBudgetExhausted
	}

	for candidate := uint64(0); candidate < budget; candidate++ {
		if candidate%cancelCheckInterval == 0 && ctx.Err() != nil {
			return 0, fmt.Errorf("%w after %d iterations: %v", ErrSearchCancelled, candidate, ctx.Err())
		}
		if MeetsDifficulty(proofDigest(lastProof, candidate), difficulty) {
			return candidate, nil
		}
	}

	return 0, fmt.Errorf("%w after %d iterations", ErrBudgetExhausted, budget)
}

// VerifyProof reports whether proof is a valid successor of lastProof at
// the given difficulty. Pure and deterministic: any party can re-derive
// the check without redoing the search.
func VerifyProof(lastProof, proof uint64, difficulty int) bool {
	return MeetsDifficulty(proofDigest(lastProof, proof), difficulty)
}
