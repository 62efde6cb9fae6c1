package keystore

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/blocto/solana-go-sdk/types"
	json "github.com/goccy/go-json"
	"github.com/mr-tron/base58"
)

const secretKeyLength = 64

// FileKeyStore loads signing keypairs from disk by path. Supported
// formats: the solana-cli JSON array of 64 bytes, or a base58-encoded
// 64-byte secret key. Loaded accounts are cached per path, so a source
// that funds many destinations is read once.
type FileKeyStore struct {
	mu    sync.Mutex
	cache map[string]types.Account
}

func NewFileKeyStore() *FileKeyStore {
	return &FileKeyStore{cache: make(map[string]types.Account)}
}

func (s *FileKeyStore) Load(ref string) (types.Account, error) {
	s.mu.Lock()
	account, ok := s.cache[ref]
	s.mu.Unlock()
	if ok {
		return account, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file %s: %w", ref, err)
	}

	account, err = parseKeypair(data)
	if err != nil {
		return types.Account{}, fmt.Errorf("parse keypair file %s: %w", ref, err)
	}

	s.mu.Lock()
	s.cache[ref] = account
	s.mu.Unlock()
	return account, nil
}

func parseKeypair(data []byte) (types.Account, error) {
	content := strings.TrimSpace(string(data))
	if strings.HasPrefix(content, "[") {
		var raw []int
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			return types.Account{}, err
		}
		if len(raw) != secretKeyLength {
			return types.Account{}, fmt.Errorf("expected %d key bytes, got %d", secretKeyLength, len(raw))
		}
		secret := make([]byte, len(raw))
		for i, b := range raw {
			if b < 0 || b > 255 {
				return types.Account{}, fmt.Errorf("key byte %d out of range: %d", i, b)
			}
			secret[i] = byte(b)
		}
		return types.AccountFromBytes(secret)
	}

	secret, err := base58.Decode(content)
	if err != nil {
		return types.Account{}, err
	}
	if len(secret) != secretKeyLength {
		return types.Account{}, fmt.Errorf("invalid private key length: expected %d bytes", secretKeyLength)
	}
	return types.AccountFromBytes(secret)
}
