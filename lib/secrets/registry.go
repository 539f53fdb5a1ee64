// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/skiffworks/skiff/lib/wire"
)

// DecodeFunc reconstructs a store from its payload tokens. It must
// consume exactly the tokens the store's WriteTo produced and no more,
// since further bundle fields follow on the same stream.
type DecodeFunc func(r *wire.Reader) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]DecodeFunc{}
)

// Register adds a store variant to the decode registry under its type
// identifier. Variants register themselves in init; the registry is
// closed once the process is up. Registering an empty identifier or
// the same identifier twice is a programming error and panics.
func Register(typeID string, decode DecodeFunc) {
	if typeID == "" {
		panic("secrets: Register with empty type identifier")
	}
	if decode == nil {
		panic("secrets: Register with nil decode function for " + typeID)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[typeID]; exists {
		panic("secrets: duplicate registration for " + typeID)
	}
	registry[typeID] = decode
}

// Decode resolves typeID in the registry and runs the registered
// decoder against the stream. An unregistered identifier or a failing
// decoder yields an *InvalidVariantError naming the identifier; the
// underlying cause (including any stream error) remains reachable
// through errors.Is/As. No partially constructed store is returned.
func Decode(typeID string, r *wire.Reader) (Store, error) {
	registryMu.RLock()
	decode, ok := registry[typeID]
	registryMu.RUnlock()

	if !ok {
		return nil, &InvalidVariantError{
			TypeID: typeID,
			Err:    errors.New("no decoder registered"),
		}
	}

	store, err := decode(r)
	if err != nil {
		return nil, &InvalidVariantError{TypeID: typeID, Err: err}
	}
	return store, nil
}

// InvalidVariantError reports a secrets type identifier that does not
// resolve to a usable store: either no decoder is registered for it,
// or the registered decoder failed.
type InvalidVariantError struct {
	// TypeID is the offending identifier as read from the stream.
	TypeID string

	// Err is the underlying cause.
	Err error
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid secrets implementation [%s]: %v", e.TypeID, e.Err)
}

func (e *InvalidVariantError) Unwrap() error {
	return e.Err
}
