package engine

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/dyachv/multisend/internal/domain/entities"
)

var (
	ErrNoSources      = errors.New("plan has no source wallets")
	ErrNoDestinations = errors.New("plan has no destination wallets")
)

// Source is one funding wallet in a transfer plan. Amount, when set,
// overrides the plan default for every transfer from this source.
type Source struct {
	KeyRef string
	Amount *decimal.Decimal
}

// Plan describes a batch of transfers before expansion.
type Plan struct {
	DefaultAmount decimal.Decimal
	Sources       []Source
	Destinations  []string
}

// ExpandPlan produces one TransferSpec per (source, destination) pair,
// source-major: all destinations of the first source, then the second,
// and so on. For S sources and D destinations the result has S*D specs.
func ExpandPlan(plan Plan) ([]entities.TransferSpec, error) {
	if len(plan.Sources) == 0 {
		return nil, ErrNoSources
	}
	if len(plan.Destinations) == 0 {
		return nil, ErrNoDestinations
	}

	specs := make([]entities.TransferSpec, 0, len(plan.Sources)*len(plan.Destinations))
	for _, source := range plan.Sources {
		amount := plan.DefaultAmount
		if source.Amount != nil {
			amount = *source.Amount
		}
		for _, dest := range plan.Destinations {
			specs = append(specs, entities.TransferSpec{
				SourceKeyRef: source.KeyRef,
				Destination:  dest,
				Amount:       amount,
			})
		}
	}
	return specs, nil
}
