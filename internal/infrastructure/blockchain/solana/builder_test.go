package sdk

import (
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyachv/multisend/internal/domain/entities"
)

type mapKeyStore map[string]types.Account

func (m mapKeyStore) Load(ref string) (types.Account, error) {
	account, ok := m[ref]
	if !ok {
		return types.Account{}, errors.New("no such keypair: " + ref)
	}
	return account, nil
}

func TestLamportsFromSOL_TruncatesTowardZero(t *testing.T) {
	cases := []struct {
		amount string
		want   uint64
	}{
		{"0.0000000015", 1},
		{"0.000000001", 1},
		{"0.0000000009", 0},
		{"1", 1_000_000_000},
		{"2.5", 2_500_000_000},
		{"0.9999999999", 999_999_999},
		{"-1", 0},
	}
	for _, tc := range cases {
		got := LamportsFromSOL(decimal.RequireFromString(tc.amount))
		assert.Equal(t, tc.want, got, "amount %s", tc.amount)
	}
}

func TestParseAddress(t *testing.T) {
	account := types.NewAccount()
	addr := account.PublicKey.ToBase58()

	parsed, err := ParseAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, addr, parsed.ToBase58())

	_, err = ParseAddress("not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("abc")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestTransferBuilder_Build(t *testing.T) {
	sender := types.NewAccount()
	dest := types.NewAccount()
	builder := NewTransferBuilder(mapKeyStore{"wallet.json": sender})

	spec := entities.TransferSpec{
		SourceKeyRef: "wallet.json",
		Destination:  dest.PublicKey.ToBase58(),
		Amount:       decimal.RequireFromString("0.5"),
	}
	built, err := builder.Build(spec, "GfVcyD5o4cj4z1ZFKmb9sk6kJ6ByGt3SpYZYkWYcGvVn")
	require.NoError(t, err)
	assert.Equal(t, sender.PublicKey.ToBase58(), built.From)

	_, ok := built.Tx.(types.Transaction)
	assert.True(t, ok, "built transaction should be a signed sdk transaction")
}

func TestTransferBuilder_MissingKeyIsKeyLoadError(t *testing.T) {
	builder := NewTransferBuilder(mapKeyStore{})

	_, err := builder.Build(entities.TransferSpec{
		SourceKeyRef: "missing.json",
		Destination:  types.NewAccount().PublicKey.ToBase58(),
		Amount:       decimal.NewFromInt(1),
	}, "hash")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyLoad)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestTransferBuilder_BadDestinationIsAddressError(t *testing.T) {
	builder := NewTransferBuilder(mapKeyStore{"wallet.json": types.NewAccount()})

	_, err := builder.Build(entities.TransferSpec{
		SourceKeyRef: "wallet.json",
		Destination:  "definitely-not-an-address",
		Amount:       decimal.NewFromInt(1),
	}, "hash")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
