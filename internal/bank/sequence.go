package bank

import "context"

// nextSequence allocates the sequence number for a question being appended
// to scope. It must run inside the same InScope transaction as the insert
// that consumes it; the scope lock is what keeps two concurrent creations
// from both reading the same count.
func nextSequence(ctx context.Context, tx Tx, scope Scope) (int, error) {
	n, err := tx.CountQuestions(ctx, scope)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// closeGap restores density after the question holding sequence number
// removed has been deleted from scope. Deleting the last question shifts
// nothing.
func closeGap(ctx context.Context, tx Tx, scope Scope, removed int) error {
	return tx.ShiftSequencesAfter(ctx, scope, removed)
}

// verifyDense checks that the scope's live sequence numbers are exactly
// {1..N}. Run after the writes of every mutating transaction; a mismatch
// aborts the transaction with an InvariantError.
func verifyDense(ctx context.Context, tx Tx, scope Scope) error {
	seqs, err := tx.SequenceNumbers(ctx, scope)
	if err != nil {
		return err
	}
	for i, got := range seqs {
		if got != i+1 {
			return &InvariantError{Scope: scope, Sequences: seqs}
		}
	}
	return nil
}
