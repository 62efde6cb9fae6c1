package engine

import (
	"context"

	"github.com/dyachv/multisend/internal/domain/entities"
)

// BlockhashProvider fetches the recent blockhash transactions must
// reference. The engine fetches it once per run and shares it read-only
// across all units.
type BlockhashProvider interface {
	LatestBlockhash(ctx context.Context) (string, error)
}

// BuiltTransaction pairs a signed transaction with the source address it
// was derived from, so outcomes can name the real sender.
type BuiltTransaction struct {
	Tx   entities.SignedTransaction
	From string
}

// TransactionBuilder turns one spec plus the shared blockhash into a
// signed, submittable transaction.
type TransactionBuilder interface {
	Build(spec entities.TransferSpec, recentBlockhash string) (BuiltTransaction, error)
}

// Submitter broadcasts a signed transaction and returns its signature.
type Submitter interface {
	Submit(ctx context.Context, tx entities.SignedTransaction) (string, error)
}

type SignatureState int

const (
	SignaturePending SignatureState = iota
	SignatureSucceeded
	SignatureFailed
)

// SignatureStatus is the remote ledger's view of a submitted transaction.
// FailureReason is set only for SignatureFailed.
type SignatureStatus struct {
	State         SignatureState
	FailureReason string
}

// StatusChecker queries confirmation status for a signature. A returned
// error means the query itself failed (transport), not that the
// transaction failed.
type StatusChecker interface {
	SignatureStatus(ctx context.Context, signature string) (SignatureStatus, error)
}
