// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"fmt"
	"sort"

	"github.com/skiffworks/skiff/lib/codec"
	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/wire"
)

// TypeIDMemory identifies the in-memory store variant on the wire.
const TypeIDMemory = "skiff.secrets.memory"

func init() {
	Register(TypeIDMemory, decodeMemory)
}

// MemoryStore holds secret entries as plaintext in ordinary heap
// memory and transmits them unencrypted. It exists for tests and
// single-machine development setups where the handoff pipe never
// leaves the process tree; production deployments use SealedStore.
type MemoryStore struct {
	entries map[string]*secret.Buffer
}

// NewMemoryStore builds a store from plaintext entries. The value
// slices are moved into protected buffers and zeroed in place. Every
// entry must have a non-empty value.
func NewMemoryStore(entries map[string][]byte) (*MemoryStore, error) {
	store := &MemoryStore{entries: make(map[string]*secret.Buffer, len(entries))}
	for name, value := range entries {
		if len(value) == 0 {
			store.Close()
			return nil, fmt.Errorf("secrets: entry %q has an empty value", name)
		}
		buffer, err := secret.FromBytes(value)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("secrets: entry %q: %w", name, err)
		}
		store.entries[name] = buffer
	}
	return store, nil
}

func decodeMemory(r *wire.Reader) (Store, error) {
	payload, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}

	var entries map[string][]byte
	if err := codec.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("parsing memory store payload: %w", err)
	}
	secret.Zero(payload)

	return NewMemoryStore(entries)
}

func (s *MemoryStore) TypeID() string {
	return TypeIDMemory
}

func (s *MemoryStore) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for name := range s.entries {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) Get(name string) (*secret.Buffer, error) {
	buffer, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("secrets: no entry %q in memory store", name)
	}
	return buffer, nil
}

func (s *MemoryStore) Digest() []byte {
	payload, err := s.marshalEntries()
	if err != nil {
		// Marshaling a map of byte slices cannot fail.
		panic("secrets: marshaling memory store: " + err.Error())
	}
	defer secret.Zero(payload)
	return digest(payload)
}

// WriteTo emits the entries as one byte-string token holding their
// deterministic CBOR encoding.
func (s *MemoryStore) WriteTo(w *wire.Writer) error {
	payload, err := s.marshalEntries()
	if err != nil {
		return fmt.Errorf("marshaling memory store payload: %w", err)
	}
	writeError := w.WriteBytes(payload)
	secret.Zero(payload)
	return writeError
}

func (s *MemoryStore) marshalEntries() ([]byte, error) {
	plain := make(map[string][]byte, len(s.entries))
	for name, buffer := range s.entries {
		plain[name] = buffer.Bytes()
	}
	return codec.Marshal(plain)
}

// Close releases all entry buffers. The store is unusable afterwards.
func (s *MemoryStore) Close() error {
	var firstError error
	for name, buffer := range s.entries {
		if err := buffer.Close(); err != nil && firstError == nil {
			firstError = fmt.Errorf("closing entry %q: %w", name, err)
		}
	}
	s.entries = nil
	return firstError
}
