// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"github.com/zeebo/blake3"

	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/wire"
)

// Store is a pluggable container of secure settings carried inside a
// startup-argument bundle. A bundle always holds exactly one Store;
// the concrete variant is selected at decode time by its type
// identifier (see Register and Decode).
//
// A Store writes its own payload with WriteTo and is reconstructed by
// the DecodeFunc registered for its type identifier. The two must be
// bit-exact inverses consuming exactly the store's own tokens from
// the shared stream.
type Store interface {
	// TypeID returns the stable identifier written to the wire ahead
	// of the store's payload.
	TypeID() string

	// Keys returns the sorted entry names. A store whose contents are
	// not currently readable (e.g., a sealed bundle before unlocking)
	// returns nil.
	Keys() []string

	// Get returns the value of the named entry. The returned buffer
	// is owned by the store and released by Close.
	Get(name string) (*secret.Buffer, error)

	// Digest returns a 32-byte BLAKE3 digest identifying the store's
	// payload. Two stores with identical payloads have identical
	// digests, so the launcher and server can cross-check the handoff
	// without comparing secret material.
	Digest() []byte

	// WriteTo appends the store's payload tokens to the stream.
	WriteTo(w *wire.Writer) error

	// Close releases any secret material held by the store.
	Close() error
}

// digestKey is the BLAKE3 keyed-hash domain key for store digests.
// Domain separation keeps these digests from colliding with any other
// BLAKE3 use of the same bytes. The key is the ASCII domain name
// zero-padded to 32 bytes; changing it invalidates recorded digests.
var digestKey = [32]byte{
	's', 'k', 'i', 'f', 'f', '.', 's', 'e', 'c', 'r', 'e', 't', 's', '.',
	'b', 'u', 'n', 'd', 'l', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// digest computes the domain-separated BLAKE3 digest of data.
func digest(data []byte) []byte {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		// Only fails on wrong key length, which is fixed above.
		panic("secrets: blake3 keyed hasher: " + err.Error())
	}
	hasher.Write(data)
	return hasher.Sum(nil)
}
