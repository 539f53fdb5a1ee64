// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides skiff's standard CBOR encoding configuration.
//
// The startup-argument handoff stream is a sequence of CBOR data
// items, so every package that touches the wire goes through the
// shared modes defined here rather than configuring fxamacker/cbor
// itself. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces
// identical bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (the handoff pipe):
//
//	encoder := codec.NewEncoder(pipe)
//	decoder := codec.NewDecoder(pipe)
//
// lib/wire builds its positional token layer on these stream types;
// most code should use lib/wire rather than this package directly.
package codec
