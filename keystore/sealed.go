package keystore

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/secrets"

	// base64key:// keepers for local use.
	_ "gocloud.dev/secrets/localsecrets"

	"github.com/vaultsandbox/webpush"
)

// Keeper encrypts and decrypts small blobs. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

var _ Keeper = (*secrets.Keeper)(nil)

// OpenKeeper opens a keeper from a gocloud.dev URL such as
// base64key://<32-byte-base64-key>.
func OpenKeeper(ctx context.Context, keeperURL string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, fmt.Errorf("keystore: open keeper: %w", err)
	}
	return keeper, nil
}

// SealedStore is a FileStore whose contents are encrypted by a Keeper.
type SealedStore struct {
	file   *FileStore
	keeper Keeper
}

var _ Store = (*SealedStore)(nil)

// NewSealedStore returns a store that seals keys with keeper before writing
// them to path. Close closes the keeper.
func NewSealedStore(path string, keeper Keeper) *SealedStore {
	return &SealedStore{file: NewFileStore(path), keeper: keeper}
}

// Load reads and decrypts the keys.
func (s *SealedStore) Load(ctx context.Context) (webpush.SerializedKeys, error) {
	sealed, err := s.file.read(ctx)
	if err != nil {
		return webpush.SerializedKeys{}, err
	}

	data, err := s.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return webpush.SerializedKeys{}, fmt.Errorf("keystore: unseal: %w", err)
	}
	return decodeKeys(data)
}

// Save encrypts the keys and replaces the file atomically.
func (s *SealedStore) Save(ctx context.Context, keys webpush.SerializedKeys) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("keystore: encode keys: %w", err)
	}

	sealed, err := s.keeper.Encrypt(ctx, data)
	if err != nil {
		return fmt.Errorf("keystore: seal: %w", err)
	}
	return s.file.write(ctx, sealed)
}

// Close closes the keeper.
func (s *SealedStore) Close() error {
	return s.keeper.Close()
}
