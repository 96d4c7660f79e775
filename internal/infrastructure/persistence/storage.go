// Package persistence holds the durable key-value area that store snapshots
// are written through to. Each store owns one key (its namespace) and writes
// its whole persisted subset on every mutation; last write wins.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrClosed = errors.New("storage closed")

// KV is a process-wide key-value area.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Storage loads and saves one snapshot type.
type Storage[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Save(ctx context.Context, v T) error
}

type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

// JSONStorage stores a snapshot under a single key as {"state":...,"version":n}.
type JSONStorage[T any] struct {
	kv      KV
	key     string
	version int
}

func NewJSONStorage[T any](kv KV, key string) *JSONStorage[T] {
	return &JSONStorage[T]{kv: kv, key: key}
}

// WithVersion sets the schema version written with every snapshot. Loading
// a snapshot with a different version reports no snapshot.
func (s *JSONStorage[T]) WithVersion(v int) *JSONStorage[T] {
	s.version = v
	return s
}

func (s *JSONStorage[T]) Key() string { return s.key }

func (s *JSONStorage[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	if s == nil || s.kv == nil {
		return zero, false, nil
	}
	b, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return zero, false, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok || len(b) == 0 {
		return zero, false, nil
	}
	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if env.Version != s.version {
		return zero, false, nil
	}
	return env.State, true, nil
}

func (s *JSONStorage[T]) Save(ctx context.Context, v T) error {
	if s == nil || s.kv == nil {
		return nil
	}
	b, err := json.Marshal(envelope[T]{State: v, Version: s.version})
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

var _ Storage[struct{}] = (*JSONStorage[struct{}])(nil)
