package kvstore

import (
	"context"
	"fmt"
	"sync"

	"gitlab.com/elixxir/ekv"
)

// rawBytes passes collection bytes through ekv unchanged
type rawBytes []byte

// Marshal implements ekv.Marshaler
func (r rawBytes) Marshal() []byte {
	return r
}

// Unmarshal implements ekv.Unmarshaler
func (r *rawBytes) Unmarshal(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// EKVBackend stores collections in an ekv key-value store
type EKVBackend struct {
	kv   ekv.KeyValue
	name string
	mu   sync.Mutex
}

// NewFileBackend opens (or creates) an encrypted file store under baseDir
func NewFileBackend(baseDir, password string) (*EKVBackend, error) {
	fs, err := ekv.NewFilestore(baseDir, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open file store at %s: %w", baseDir, err)
	}
	return &EKVBackend{kv: fs, name: "ekv"}, nil
}

// NewMemoryBackend returns a volatile backend, used by tests and ephemeral runs
func NewMemoryBackend() *EKVBackend {
	return &EKVBackend{kv: ekv.MakeMemstore(), name: "memory"}
}

// Get implements Backend
func (b *EKVBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var data rawBytes
	if err := b.kv.Get(key, &data); err != nil {
		if !ekv.Exists(err) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(data), nil
}

// Set implements Backend
func (b *EKVBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.kv.Set(key, rawBytes(value))
}

// Delete implements Backend
func (b *EKVBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.kv.Delete(key); err != nil && ekv.Exists(err) {
		return err
	}
	return nil
}

// Close implements Backend. ekv flushes on every write.
func (b *EKVBackend) Close() error {
	return nil
}

// Name implements Backend
func (b *EKVBackend) Name() string {
	return b.name
}
