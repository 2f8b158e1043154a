package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vaultsandbox/webpush"
)

// ErrNotFound is returned by Load when no keys have been saved yet.
var ErrNotFound = errors.New("keystore: keys not found")

// Store loads and saves serialized application server keys.
type Store interface {
	Load(ctx context.Context) (webpush.SerializedKeys, error)
	Save(ctx context.Context, keys webpush.SerializedKeys) error
	Close() error
}

// FileStore keeps keys as a JSON file.
type FileStore struct {
	Path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the keys from disk.
func (s *FileStore) Load(ctx context.Context) (webpush.SerializedKeys, error) {
	data, err := s.read(ctx)
	if err != nil {
		return webpush.SerializedKeys{}, err
	}
	return decodeKeys(data)
}

// Save replaces the file atomically. The file is created with mode 0600.
func (s *FileStore) Save(ctx context.Context, keys webpush.SerializedKeys) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("keystore: encode keys: %w", err)
	}
	return s.write(ctx, append(data, '\n'))
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", s.Path, err)
	}
	return data, nil
}

func (s *FileStore) write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("keystore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("keystore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("keystore: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("keystore: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("keystore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("keystore: close: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("keystore: rename: %w", err)
	}
	return nil
}

func decodeKeys(data []byte) (webpush.SerializedKeys, error) {
	var keys webpush.SerializedKeys
	if err := json.Unmarshal(data, &keys); err != nil {
		return webpush.SerializedKeys{}, fmt.Errorf("keystore: decode keys: %w", err)
	}
	return keys, nil
}
