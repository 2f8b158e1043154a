package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaultsandbox/webpush"
	"github.com/vaultsandbox/webpush/webcrypto"
)

// Open returns a FileStore for path, or a SealedStore when keeperURL is set.
func Open(ctx context.Context, path, keeperURL string) (Store, error) {
	if path == "" {
		return nil, errors.New("keystore: path is required")
	}
	if keeperURL == "" {
		return NewFileStore(path), nil
	}

	keeper, err := OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, err
	}
	return NewSealedStore(path, keeper), nil
}

// LoadOrGenerate loads the keys from store, generating and saving a new
// pair when none exist. created reports whether keys were generated. A nil
// provider uses the process default.
func LoadOrGenerate(ctx context.Context, store Store, p webcrypto.Provider) (keys *webpush.ApplicationServerKeys, created bool, err error) {
	serialized, err := store.Load(ctx)
	switch {
	case err == nil:
		keys, err = webpush.ApplicationServerKeysFromJSON(p, serialized)
		if err != nil {
			return nil, false, fmt.Errorf("keystore: stored keys: %w", err)
		}
		return keys, false, nil
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	keys, err = webpush.GenerateApplicationServerKeys(p)
	if err != nil {
		return nil, false, err
	}
	if err := store.Save(ctx, keys.ToJSON()); err != nil {
		return nil, false, err
	}
	return keys, true, nil
}
