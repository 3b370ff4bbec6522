package chain

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a candidate block fails one of the
// admission checks. Reason identifies the first failed check; the chain
// is never modified on a validation failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block rejected: %s", e.Reason)
}

// checkTransactionFields holds the field-validity rules shared by the
// pool (at submit time) and the validator (defense in depth against
// tampered or externally sourced blocks).
func checkTransactionFields(tx Transaction) error {
	if tx.Sender == "" {
		return errors.New("missing sender")
	}
	if tx.Recipient == "" {
		return errors.New("missing recipient")
	}
	if tx.Amount < 0 {
		return fmt.Errorf("negative amount %d", tx.Amount)
	}
	return nil
}

// ValidateBlock checks a candidate block against the current tip. Checks
// run in order and short-circuit on the first failure, each with a
// distinct reason:
//
//  1. index continuity
//  2. previous-hash linkage
//  3. proof-of-work verification
//  4. per-transaction field validity
func ValidateBlock(candidate, tip *Block, difficulty int) error {
	if candidate.Index != tip.Index+1 {
		return &ValidationError{Reason: fmt.Sprintf("index %d does not follow tip index %d", candidate.Index, tip.Index)}
	}

	if tipHash := HashBlock(tip); candidate.PreviousHash != tipHash {
		return &ValidationError{Reason: fmt.Sprintf("previous hash %.12s does not match tip hash %.12s", candidate.PreviousHash, tipHash)}
	}

	if !VerifyProof(tip.Proof, candidate.Proof, difficulty) {
		return &ValidationError{Reason: fmt.Sprintf("proof %d fails difficulty %d", candidate.Proof, difficulty)}
	}

	for i, tx := range candidate.Transactions {
		if err := checkTransactionFields(tx); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("transaction %d invalid: %v", i, err)}
		}
	}

	return nil
}

// ValidateChain checks a full chain, genesis first, against every chain
// invariant. Used when loading a persisted chain before trusting it.
func ValidateChain(blocks []Block, difficulty int) error {
	if len(blocks) == 0 {
		return &ValidationError{Reason: "chain is empty"}
	}

	genesis := blocks[0]
	if genesis.Index != GenesisIndex {
		return &ValidationError{Reason: fmt.Sprintf("genesis index %d, want %d", genesis.Index, GenesisIndex)}
	}
	if genesis.PreviousHash != GenesisPreviousHash {
		return &ValidationError{Reason: "genesis previous hash is not the sentinel"}
	}
	if len(genesis.Transactions) != 0 {
		return &ValidationError{Reason: "genesis block carries transactions"}
	}

	for i := 1; i < len(blocks); i++ {
		if err := ValidateBlock(&blocks[i], &blocks[i-1], difficulty); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return nil
}
