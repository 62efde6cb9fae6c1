package sdk

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"

	"github.com/dyachv/multisend/internal/domain/entities"
	"github.com/dyachv/multisend/internal/engine"
)

var (
	ErrKeyLoad        = errors.New("keypair loading error")
	ErrInvalidAddress = errors.New("invalid destination address")
)

// LamportsPerSOL is the fixed scale between SOL and the ledger's base unit.
const LamportsPerSOL = 1_000_000_000

// KeyStore resolves a key reference to a signing account.
type KeyStore interface {
	Load(ref string) (types.Account, error)
}

// TransferBuilder signs SystemProgram transfers for the engine. Build
// errors are unit-local: the engine converts them to Failed outcomes.
type TransferBuilder struct {
	keys KeyStore
}

func NewTransferBuilder(keys KeyStore) *TransferBuilder {
	return &TransferBuilder{keys: keys}
}

func (b *TransferBuilder) Build(spec entities.TransferSpec, recentBlockhash string) (engine.BuiltTransaction, error) {
	sender, err := b.keys.Load(spec.SourceKeyRef)
	if err != nil {
		return engine.BuiltTransaction{}, fmt.Errorf("%w: %v", ErrKeyLoad, err)
	}

	to, err := ParseAddress(spec.Destination)
	if err != nil {
		return engine.BuiltTransaction{}, err
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        sender.PublicKey,
			RecentBlockhash: recentBlockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   sender.PublicKey,
					To:     to,
					Amount: LamportsFromSOL(spec.Amount),
				}),
			},
		}),
		Signers: []types.Account{sender},
	})
	if err != nil {
		return engine.BuiltTransaction{}, fmt.Errorf("build transaction: %w", err)
	}

	return engine.BuiltTransaction{Tx: tx, From: sender.PublicKey.ToBase58()}, nil
}

// LamportsFromSOL converts a decimal SOL amount to lamports, truncating
// toward zero: 0.0000000015 SOL is 1 lamport, not 2.
func LamportsFromSOL(amount decimal.Decimal) uint64 {
	lamports := amount.Shift(9).IntPart()
	if lamports < 0 {
		return 0
	}
	return uint64(lamports)
}
