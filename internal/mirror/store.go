// Package mirror hands the latest totals to home-screen widgets and watch
// complications through a small shared key-value store.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// ErrMissing is returned when a key has never been written.
var ErrMissing = errors.New("mirror key missing")

type Store interface {
	SetBytes(ctx context.Context, key string, value []byte) error
	Bytes(ctx context.Context, key string) ([]byte, error)
}

func SetInt(ctx context.Context, s Store, key string, v int) error {
	return s.SetBytes(ctx, key, []byte(strconv.Itoa(v)))
}

// Int returns 0 for missing keys.
func Int(ctx context.Context, s Store, key string) (int, error) {
	b, err := s.Bytes(ctx, key)
	if errors.Is(err, ErrMissing) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("mirror key %s is not an integer: %w", key, err)
	}
	return v, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal mirror value %s: %w", key, err)
	}
	return s.SetBytes(ctx, key, b)
}

func JSON(ctx context.Context, s Store, key string, dest any) error {
	b, err := s.Bytes(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("unmarshal mirror value %s: %w", key, err)
	}
	return nil
}

// FileStore keeps every key in one JSON document and replaces the file
// atomically on each write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (map[string]json.RawMessage, error) {
	data := map[string]json.RawMessage{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mirror file: %w", err)
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode mirror file: %w", err)
	}
	return data, nil
}

func (f *FileStore) SetBytes(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(string(value))
	if err != nil {
		return fmt.Errorf("encode mirror value %s: %w", key, err)
	}
	data[key] = encoded

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mirror file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("write mirror file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace mirror file: %w", err)
	}
	return nil
}

func (f *FileStore) Bytes(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return nil, err
	}
	raw, ok := data[key]
	if !ok {
		return nil, ErrMissing
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode mirror value %s: %w", key, err)
	}
	return []byte(s), nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) SetBytes(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Bytes(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMissing
	}
	return append([]byte(nil), v...), nil
}
