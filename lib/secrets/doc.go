// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package secrets provides the pluggable secure-settings stores
// carried inside a startup-argument bundle, and the registry that
// resolves a store variant from the type identifier on the wire.
//
// The handoff stream names the concrete variant with a string
// identifier, then hands the shared wire.Reader to that variant's
// decoder. Resolution goes through an explicit closed registry
// ([Register] / [Decode]) populated at init time — there is no
// reflection, and an identifier with no registered decoder fails with
// [InvalidVariantError]. The args codec (lib/serverargs) is agnostic
// to how many variants exist.
//
// Variants:
//
//   - [EmptyStore] -- no entries; a bundle must always carry a store,
//     so launchers without secrets use this rather than omitting it
//   - [MemoryStore] -- plaintext entries, for tests and local
//     development only
//   - [SealedStore] -- age-encrypted bundle (filippo.io/age) that
//     travels locked and is unlocked on the server side with the
//     machine's x25519 key or an operator passphrase
//
// Entry values are handed out as secret.Buffer so plaintext secret
// material stays in mmap-backed memory. [Store.Digest] gives a
// domain-separated BLAKE3 fingerprint of the payload for cross-checks
// that must not touch the secrets themselves.
package secrets
