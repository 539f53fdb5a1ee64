// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the positional token layer for the
// launcher→server handoff stream.
//
// The handoff protocol is strictly positional: there is no field
// tagging or self-describing schema, so reader and writer must agree
// on token order out-of-band. This package defines the token
// vocabulary — bool, string, optional-string, byte-string — with each
// token carried as one CBOR data item (lib/codec's deterministic
// configuration), which makes every token self-delimiting without any
// additional length prefix.
//
// One [Writer] or [Reader] owns a stream for its whole lifetime.
// Components that serialize themselves (secrets stores, the settings
// container) take the shared Writer/Reader and emit or consume
// exactly their own tokens, so a decoder knows where a nested payload
// ends without outer framing.
//
// The layer performs no recovery: any error aborts the current
// operation, and the stream position is undefined afterwards.
package wire
