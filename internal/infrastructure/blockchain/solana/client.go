package sdk

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"golang.org/x/time/rate"

	"github.com/dyachv/multisend/internal/domain/entities"
	"github.com/dyachv/multisend/internal/engine"
	"github.com/dyachv/multisend/internal/infrastructure/blockchain/solana/models"
)

// DefaultSubmitRetries is how many times the RPC node re-broadcasts a
// transaction before giving up; the retry happens remotely, one logical
// submit call covers it.
const DefaultSubmitRetries = 5

// Network defines Solana cluster
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
)

func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		fallthrough
	default:
		return "https://api.devnet.solana.com"
	}
}

// Client wraps the Solana RPC client behind the engine's ledger ports,
// with an optional client-side request rate limit.
type Client struct {
	c             *client.Client
	limiter       *rate.Limiter
	submitRetries uint64
}

type Option func(*Client)

// WithRateLimit caps outgoing RPC requests; invalid arguments leave the
// client unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func WithSubmitRetries(n uint64) Option {
	return func(c *Client) { c.submitRetries = n }
}

func NewClient(rpcURL string, opts ...Option) *Client {
	c := &Client{
		c:             client.NewClient(rpcURL),
		submitRetries: DefaultSubmitRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewClientForNetwork(network Network, opts ...Option) *Client {
	return NewClient(DefaultRPCURL(network), opts...)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// LatestBlockhash returns the recent blockhash transactions must
// reference to be accepted.
func (c *Client) LatestBlockhash(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	recent, err := c.c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	return recent.Blockhash, nil
}

// Submit broadcasts a signed transaction with preflight validation
// enabled and returns its signature.
func (c *Client) Submit(ctx context.Context, signed entities.SignedTransaction) (string, error) {
	tx, ok := signed.(types.Transaction)
	if !ok {
		return "", fmt.Errorf("unsupported transaction type %T", signed)
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.c.SendTransactionWithConfig(ctx, tx, client.SendTransactionConfig{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
		MaxRetries:          c.submitRetries,
	})
}

// SignatureStatus maps the RPC status to the engine's view: unknown
// signatures are pending, a remote-reported error is a failure,
// anything else is success.
func (c *Client) SignatureStatus(ctx context.Context, signature string) (engine.SignatureStatus, error) {
	if err := c.wait(ctx); err != nil {
		return engine.SignatureStatus{}, err
	}
	status, err := c.c.GetSignatureStatus(ctx, signature)
	if err != nil {
		return engine.SignatureStatus{}, err
	}
	if status == nil {
		return engine.SignatureStatus{State: engine.SignaturePending}, nil
	}
	if status.Err != nil {
		return engine.SignatureStatus{
			State:         engine.SignatureFailed,
			FailureReason: fmt.Sprintf("%v", status.Err),
		}, nil
	}
	return engine.SignatureStatus{State: engine.SignatureSucceeded}, nil
}

// Balance returns the balance in lamports for a given public key (base58)
func (c *Client) Balance(ctx context.Context, req models.BalanceRequest) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	pub, err := ParseAddress(req.PublicKey)
	if err != nil {
		return 0, err
	}
	return c.c.GetBalance(ctx, pub.ToBase58())
}

// RequestAirdrop requests an airdrop in lamports to the given public key (base58)
func (c *Client) RequestAirdrop(ctx context.Context, req models.AirdropRequest) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	pub, err := ParseAddress(req.PublicKey)
	if err != nil {
		return "", err
	}
	return c.c.RequestAirdrop(ctx, pub.ToBase58(), req.Lamports)
}

// Slot returns the current slot at the node's default commitment.
func (c *Client) Slot(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	return c.c.GetSlot(ctx)
}

// ParseAddress decodes a base58 ledger address, requiring exactly 32 bytes.
func ParseAddress(address string) (common.PublicKey, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %s: %v", ErrInvalidAddress, address, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: %s: expected %d bytes, got %d",
			ErrInvalidAddress, address, common.PublicKeyLength, len(raw))
	}
	return common.PublicKeyFromBytes(raw), nil
}
