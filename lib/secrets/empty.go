// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"fmt"

	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/wire"
)

// TypeIDEmpty identifies the empty store variant on the wire.
const TypeIDEmpty = "skiff.secrets.empty"

func init() {
	Register(TypeIDEmpty, func(r *wire.Reader) (Store, error) {
		return EmptyStore{}, nil
	})
}

// EmptyStore is the secrets variant with no entries. A bundle must
// always carry a store, so launchers that have no secrets to hand
// off use this rather than omitting the field.
type EmptyStore struct{}

// NewEmptyStore returns the empty store.
func NewEmptyStore() EmptyStore {
	return EmptyStore{}
}

func (EmptyStore) TypeID() string {
	return TypeIDEmpty
}

func (EmptyStore) Keys() []string {
	return nil
}

func (EmptyStore) Get(name string) (*secret.Buffer, error) {
	return nil, fmt.Errorf("secrets: no entry %q in empty store", name)
}

func (EmptyStore) Digest() []byte {
	return digest(nil)
}

// WriteTo writes nothing: the empty store has a zero-length payload,
// and its decoder consumes no tokens.
func (EmptyStore) WriteTo(w *wire.Writer) error {
	return nil
}

func (EmptyStore) Close() error {
	return nil
}
